package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/models"
	urfavecli "github.com/urfave/cli/v3"
)

// statusEntry is one file row of the machine-readable status output.
type statusEntry struct {
	Path     string `json:"path"`
	Status   string `json:"status"`
	Bucket   string `json:"bucket"`
	Conflict bool   `json:"conflict,omitempty"`
	Renamed  string `json:"renamed,omitempty"`
}

// StatusCommand returns the status subcommand definition: the same
// bucket-classified view the TUI shows, printed for scripts.
func StatusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "status",
		Usage: "Print the working tree status grouped by bucket",
		Flags: append(commonFlags(),
			&urfavecli.BoolFlag{
				Name:  "json",
				Usage: "Emit the status as a JSON array",
			},
		),
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfig(cmd.String("config-file"), cmd.String("repo"), cmd.StringSlice("config"))
			if err != nil {
				return err
			}
			gitSvc := newCLIGitService(cfg)
			repoPath := repoPathOrCwd(cfg)
			if !gitSvc.IsRepository(ctx, repoPath) {
				return fmt.Errorf("not a git repository: %s", repoPath)
			}

			set := gitSvc.LoadStatus(ctx, repoPath)
			entries := statusEntries(set)
			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Println("Working tree clean")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tBUCKET\tFILE")
			for _, e := range entries {
				marker := e.Status
				if e.Conflict {
					marker += "!"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", marker, e.Bucket, e.Path)
			}
			return w.Flush()
		},
	}
}

func statusEntries(set *models.FileStatusSet) []statusEntry {
	entries := make([]statusEntry, 0, set.Count())
	for i := 0; i < set.Count(); i++ {
		flags := set.Status(i)
		entries = append(entries, statusEntry{
			Path:     set.GetFile(i),
			Status:   statusLetter(flags),
			Bucket:   flags.Bucket().String(),
			Conflict: flags&models.StatusConflict != 0,
			Renamed:  set.ExtendedStatus(i),
		})
	}
	return entries
}

// statusLetter reduces the flag set back to a single porcelain-style letter
// for display, mirroring the order the flags were derived in.
func statusLetter(flags models.FileStatus) string {
	switch {
	case flags&models.StatusRenamed != 0:
		return "R"
	case flags&models.StatusCopied != 0:
		return "C"
	case flags&models.StatusDeleted != 0:
		return "D"
	case flags&models.StatusNew != 0:
		return "A"
	case flags&models.StatusModified != 0:
		return "M"
	case flags&models.StatusUnknown != 0:
		return "?"
	default:
		return "-"
	}
}

// CommitCommand returns the commit subcommand definition. It reuses the same
// message cleanup the TUI editor applies.
func CommitCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "commit",
		Usage: "Commit the staged changes",
		Flags: append(commonFlags(),
			&urfavecli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Commit subject line",
			},
			&urfavecli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Commit body (lines starting with # are dropped)",
			},
			&urfavecli.BoolFlag{
				Name:  "amend",
				Usage: "Amend the previous commit",
			},
			&urfavecli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Stage all pending changes first",
			},
		),
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfig(cmd.String("config-file"), cmd.String("repo"), cmd.StringSlice("config"))
			if err != nil {
				return err
			}
			gitSvc := newCLIGitService(cfg)
			repoPath := repoPathOrCwd(cfg)
			if !gitSvc.IsRepository(ctx, repoPath) {
				return fmt.Errorf("not a git repository: %s", repoPath)
			}

			message, err := git.CleanCommitMessage(cmd.String("message"), cmd.String("description"))
			if err != nil {
				return err
			}

			if cmd.Bool("all") && !gitSvc.StageAll(ctx, repoPath) {
				return fmt.Errorf("staging failed")
			}

			set := gitSvc.LoadStatus(ctx, repoPath)
			if hasConflicts(set) {
				return fmt.Errorf("unresolved conflicts, refusing to commit")
			}
			counts := models.CountBuckets(set)
			if counts.Staged == 0 && !cmd.Bool("amend") {
				return fmt.Errorf("nothing staged to commit")
			}

			result := gitSvc.Commit(ctx, repoPath, message, cmd.Bool("amend"))
			if !result.Success {
				return fmt.Errorf("commit failed: %w", result.Err)
			}
			fmt.Printf("[%s] %s\n", result.Sha, strings.TrimSpace(cmd.String("message")))
			return nil
		},
	}
}

func hasConflicts(set *models.FileStatusSet) bool {
	for i := 0; i < set.Count(); i++ {
		if set.StatusCmp(i, models.StatusConflict) {
			return true
		}
	}
	return false
}
