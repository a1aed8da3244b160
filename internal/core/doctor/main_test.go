package doctor

import (
	"os"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestMain(m *testing.M) {
	// Keep tests away from the developer's real keychain.
	keyring.MockInit()
	os.Exit(m.Run())
}
