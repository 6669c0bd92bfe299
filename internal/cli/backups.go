package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

type backupEntry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List accumulated pre-mutation backups",
	Long: `List the snapshot files taken before mutating actions.

Backups are never pruned automatically; remove old ones by hand when they are
no longer useful.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			PrintError(err.Error())
			return err
		}

		entries, err := os.ReadDir(a.paths.Backups)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read backup directory: %w", err)
		}

		var backups []backupEntry
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".bak" {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			backups = append(backups, backupEntry{
				Name:     e.Name(),
				Size:     info.Size(),
				Modified: info.ModTime().UTC().Format("2006-01-02 15:04:05"),
			})
		}
		sort.Slice(backups, func(i, j int) bool { return backups[i].Name < backups[j].Name })

		if jsonOutput {
			if backups == nil {
				backups = []backupEntry{}
			}
			return outputJSON(backups)
		}

		if len(backups) == 0 {
			PrintInfo("No backups yet.")
			return nil
		}
		PrintSection("Backups")
		PrintLabelValue("Directory", a.paths.Backups)
		for _, b := range backups {
			PrintInfo(fmt.Sprintf("  %-60s %8d bytes  %s", b.Name, b.Size, b.Modified))
		}
		return nil
	},
}
