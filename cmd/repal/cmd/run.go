package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clintkolodziej/repal/pkg/engine"
	"github.com/clintkolodziej/repal/pkg/equations"
	"github.com/clintkolodziej/repal/pkg/image"
	"github.com/clintkolodziej/repal/pkg/profile"
	"github.com/spf13/cobra"
)

func runRepal(cmd *cobra.Command, args []string) error {
	dumpPath := args[0]

	polarity, err := equations.ParsePolarity(polarityStr)
	if err != nil {
		return err
	}
	oePolarity, err := equations.ParsePolarity(oePolarityStr)
	if err != nil {
		return err
	}

	cfgPath := profilesPath
	if !cmd.Flags().Changed("profiles") {
		if exe, err := os.Executable(); err == nil {
			cfgPath = filepath.Join(filepath.Dir(exe), profilesPath)
		}
	}
	if verbose {
		fmt.Printf("Loading device profiles from %s\n", cfgPath)
	}
	profiles, err := profile.LoadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("repal: %w", err)
	}

	info, err := os.Stat(dumpPath)
	if err != nil {
		return fmt.Errorf("repal: stat %s: %w", dumpPath, err)
	}

	p, err := resolveProfile(profiles, deviceType, info.Size())
	if err != nil {
		return fmt.Errorf("repal: %w", err)
	}
	if verbose {
		fmt.Printf("Using profile %q (device %s)\n", p.Name, p.Device)
	}

	img, err := image.Load(dumpPath, p)
	if err != nil {
		return fmt.Errorf("repal: %w", err)
	}

	var progressCh chan engine.Progress
	if verbose {
		progressCh = make(chan engine.Progress, 16)
		go displayProgress(progressCh)
	}

	stem := strings.TrimSuffix(filepath.Base(dumpPath), filepath.Ext(dumpPath))
	res, err := engine.Run(context.Background(), p, img, engine.Options{
		Header: equations.Header{
			Name:   stem,
			Device: p.Device,
			Date:   time.Now().Format("01/02/2006"),
		},
		Polarity:   polarity,
		OEPolarity: oePolarity,
		TruthTable: truthTable,
		Progress:   progressCh,
	})
	if progressCh != nil {
		close(progressCh)
	}
	if err != nil {
		return fmt.Errorf("repal: %w", err)
	}

	eqPath := stem + ".pld"
	if err := os.WriteFile(eqPath, []byte(res.Equations), 0644); err != nil {
		return fmt.Errorf("repal: write %s: %w", eqPath, err)
	}
	fmt.Printf("Wrote %s\n", eqPath)

	if truthTable {
		ttPath := stem + ".tt"
		if err := os.WriteFile(ttPath, []byte(res.TruthTable), 0644); err != nil {
			return fmt.Errorf("repal: write %s: %w", ttPath, err)
		}
		fmt.Printf("Wrote %s\n", ttPath)
	}

	return nil
}

// resolveProfile honors an explicit --device-type or falls back to
// size-based auto-detection (spec §6, original's --devicetype=auto).
func resolveProfile(profiles map[string]*profile.DeviceProfile, deviceType string, fileSize int64) (*profile.DeviceProfile, error) {
	if deviceType == "" || deviceType == "auto" {
		return profile.AutoSelect(profiles, fileSize)
	}
	return profile.Select(profiles, deviceType)
}

// displayProgress prints a single updating line per pipeline phase,
// mirroring the teacher's reveng progress display.
func displayProgress(ch <-chan engine.Progress) {
	lastPhase := ""
	for p := range ch {
		if p.Phase != lastPhase {
			fmt.Printf("\n%s:\n", p.Phase)
			lastPhase = p.Phase
		}
		if p.Total > 0 {
			fmt.Printf("\r  [%d/%d] %s", p.Index+1, p.Total, p.Pin)
		}
	}
	fmt.Println()
}
