package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/snapshot"
	"github.com/katalvlaran/pulsetrace/trace"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect pulse-set snapshots",
		Long: `Snapshots capture a pulse set, reduced or not, in the snapshot
database (snapshot.db in config) or as standalone JSON files.`,
	}
	cmd.AddCommand(
		newSnapshotSaveCmd(),
		newSnapshotListCmd(),
		newSnapshotShowCmd(),
		newSnapshotDeleteCmd(),
		newSnapshotImportCmd(),
	)
	return cmd
}

// openStore opens the configured snapshot database, creating its directory.
func openStore(e *env) (*snapshot.Store, error) {
	path := e.cfg.SnapshotDB()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return snapshot.Open(path)
}

func newSnapshotSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <trace.csv>",
		Short: "Snapshot a trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			_, set, err := loadTrace(cmd, e, args[0])
			if err != nil {
				return err
			}
			if reduce, _ := cmd.Flags().GetBool("reduce"); reduce {
				if err := reduceLogged(e, args[0], set); err != nil {
					return err
				}
			}
			label, _ := cmd.Flags().GetString("label")
			if label == "" {
				label = filepath.Base(args[0])
			}
			snap, err := snapshot.Take(set, label)
			if err != nil {
				return err
			}

			if file, _ := cmd.Flags().GetString("file"); file != "" {
				if err := snapshot.WriteFile(file, snap); err != nil {
					return err
				}
			} else {
				store, err := openStore(e)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Save(cmd.Context(), snap); err != nil {
					return err
				}
			}

			if e.json {
				return e.emit(map[string]any{"id": snap.ID, "pulses": len(snap.Pulses), "reduced": snap.Reduced})
			}
			fmt.Fprintf(e.out, "saved snapshot %s (%d pulses, reduced=%t)\n", snap.ID, len(snap.Pulses), snap.Reduced)
			return nil
		},
	}
	addTraceFlags(cmd)
	cmd.Flags().String("label", "", "Snapshot label (default trace file name)")
	cmd.Flags().Bool("reduce", false, "Reduce the set before taking the snapshot")
	cmd.Flags().String("file", "", "Write a JSON snapshot file instead of using the database")

	return cmd
}

func newSnapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			store, err := openStore(e)
			if err != nil {
				return err
			}
			defer store.Close()

			sums, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if e.json {
				return e.emit(sums)
			}
			if len(sums) == 0 {
				fmt.Fprintln(e.out, "no snapshots")
				return nil
			}
			for _, s := range sums {
				energy := "-"
				if s.Reduced {
					energy = formatEnergy(s.Energy)
				}
				fmt.Fprintf(e.out, "%s  %s  %6d pulses  %-10s  %s\n",
					s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Pulses, energy, s.Label)
			}
			return nil
		},
	}
}

// loadSnapshot reads a snapshot by database id, or from a JSON file when
// ref is not a UUID.
func loadSnapshot(cmd *cobra.Command, e *env, ref string) (*snapshot.Snapshot, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return snapshot.ReadFile(ref)
	}
	store, err := openStore(e)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(cmd.Context(), id)
}

func newSnapshotShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|file.json>",
		Short: "Show a snapshot and optionally export its pulses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			snap, err := loadSnapshot(cmd, e, args[0])
			if err != nil {
				return err
			}
			set, err := snapshot.Restore(snap)
			if err != nil {
				return err
			}

			if tr, _ := cmd.Flags().GetString("trace"); tr != "" {
				if err := trace.WriteFile(tr, set.Pulses()); err != nil {
					return err
				}
			}
			if e.json {
				return snapshot.Encode(e.out, snap)
			}
			fmt.Fprintf(e.out, "id:       %s\n", snap.ID)
			fmt.Fprintf(e.out, "label:    %s\n", snap.Label)
			fmt.Fprintf(e.out, "created:  %s\n", snap.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(e.out, "reduced:  %t\n", snap.Reduced)
			if snap.Reduced {
				fmt.Fprintf(e.out, "energy:   %s\n", formatEnergy(snap.Energy))
			}
			fmt.Fprintln(e.out, set.String())
			return nil
		},
	}
	cmd.Flags().String("trace", "", "Also write the pulses as a trace CSV to this file")

	return cmd
}

func newSnapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			store, err := openStore(e)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "deleted snapshot %s\n", id)
			return nil
		},
	}
}

func newSnapshotImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Store a JSON snapshot file in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			snap, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := snapshot.Restore(snap); err != nil {
				return err
			}

			store, err := openStore(e)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "imported snapshot %s\n", snap.ID)
			return nil
		},
	}
}
