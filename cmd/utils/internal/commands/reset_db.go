package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
)

var allDatabases = []string{
	"restaurant_order",
	"restaurant_kitchen",
	"restaurant_menu",
}

// ResetDB drops all restaurant databases - USE WITH CAUTION
func ResetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("DANGER: dropping ALL restaurant databases, this cannot be undone")

	client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	for _, name := range allDatabases {
		if err := client.Database(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
		logger.Infof("Dropped database %s", name)
	}

	return nil
}
