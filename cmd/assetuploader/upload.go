package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tasktracker/assetuploader/pkg/deploy"
	"github.com/tasktracker/assetuploader/pkg/storage"
)

func runUpload(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx := cmd.Context()

	store, err := storage.NewS3Store(ctx, log, &cfg.S3)
	if err != nil {
		return fmt.Errorf("creating S3 store: %w", err)
	}

	deployer := deploy.NewDeployer(log, store, &deploy.Config{
		Bucket:   deploy.DefaultBucket,
		BaseDir:  cfg.Global.BaseDir,
		Reporter: deploy.NewReporter(cmd.OutOrStdout()),
	})

	// Per-file failures are part of the summary; only a missing bucket
	// ends the run with an error.
	if _, err := deployer.Run(ctx, deploy.DefaultItems()); err != nil {
		return fmt.Errorf("ensuring bucket: %w", err)
	}

	return nil
}
