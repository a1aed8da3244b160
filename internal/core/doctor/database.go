package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/bluelight/internal/data/db"
	"github.com/hay-kot/bluelight/internal/data/stores"
)

// DatabaseCheck opens the local history database and reads from it.
type DatabaseCheck struct {
	open func() (*db.DB, error)
}

func NewDatabaseCheck(open func() (*db.DB, error)) *DatabaseCheck {
	return &DatabaseCheck{open: open}
}

func (c *DatabaseCheck) Name() string {
	return "History Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	database, err := c.open()
	if err != nil {
		result.Items = append(result.Items, fail("Open", err.Error()))
		return result
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()
	result.Items = append(result.Items, pass("Open", database.Path()))

	counts, err := stores.NewActionLogStore(database).Counts(ctx, time.Unix(0, 0))
	if err != nil {
		result.Items = append(result.Items, fail("Action log", err.Error()))
		return result
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	result.Items = append(result.Items, pass("Action log", fmt.Sprintf("%d entries", total)))

	return result
}
