// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HappyFox001/cursor-free/internal/backup"
	"github.com/HappyFox001/cursor-free/internal/i18n"
	"github.com/HappyFox001/cursor-free/internal/model"
)

func newBackupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Inspect and export configuration backups",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := backupStore(appConfig)
			if err != nil {
				return err
			}
			records, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, i18n.T("backups.empty", store.Dir))
				return nil
			}
			fmt.Fprintln(out, subtleStyle.Render(i18n.T("backups.header", store.Dir)))
			for _, rec := range records {
				fmt.Fprintf(out, "%-8s %s  %s\n", rec.Kind, formatStamp(rec), rec.Name())
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [output-file]",
		Short: "Write all backups into a zstd-compressed tar archive",
		Long: `Packs every file of the backup directory into a single Zstandard-compressed
tar archive. '.tar.zst' is appended to the name if it's not already present.
Without an output file, 'cursor-backups-YYYYMMDD_HHMMSS.tar.zst' is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := fmt.Sprintf("cursor-backups-%s.tar.zst", time.Now().UTC().Format(model.BackupTimeLayout))
			if len(args) == 1 {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".tar.zst") {
					outputFile += ".tar.zst"
				}
			}
			store, err := backupStore(appConfig)
			if err != nil {
				return err
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("could not create file: %w", err)
			}
			n, err := store.Export(f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(outputFile)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(i18n.T("backups.exported", n, outputFile)))
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the files of an exported backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open archive: %w", err)
			}
			defer func() { _ = f.Close() }()
			files, err := backup.ReadArchive(f)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(files))
			for name := range files {
				names = append(names, name)
			}
			sort.Sort(sort.Reverse(sort.StringSlice(names)))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, subtleStyle.Render(i18n.T("backups.archive_header", len(files), args[0])))
			for _, name := range names {
				fmt.Fprintf(out, "%8d  %s\n", len(files[name]), name)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, exportCmd, inspectCmd)
	return cmd
}

func formatStamp(rec model.BackupRecord) string {
	if rec.Timestamp.IsZero() {
		return "-                  "
	}
	return rec.Timestamp.UTC().Format(time.DateTime)
}
