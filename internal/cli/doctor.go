package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"spotimcp/internal/config"
	"spotimcp/internal/spotify"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, credentials and player prerequisites",
	RunE:  runDoctor,
}

func runDoctor(_ *cobra.Command, _ []string) error {
	s := newStyles(os.Stdout)
	failed := false

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(s.fail("config: " + err.Error()))
		os.Exit(ExitConfigInvalid)
	}
	fmt.Println(s.sectionHeader("Configuration"))
	for _, field := range config.EffectiveFields(cfg) {
		value := field.Value
		if field.Sensitive {
			if value == "" {
				value = "(not set)"
			} else {
				value = "****"
			}
		}
		fmt.Println(s.kv(field.Key, fmt.Sprintf("%s %s", value, s.dim("("+string(field.Source)+")"))))
	}

	fmt.Println(s.sectionHeader("Checks"))

	if err := cfg.ValidateCredentials(); err != nil {
		fmt.Println(s.fail("credentials: " + err.Error()))
		failed = true
	} else {
		fmt.Println(s.ok("credentials configured"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := spotify.NewClient(cfg).CheckAuth(ctx); err != nil {
			fmt.Println(s.fail("token exchange: " + err.Error()))
			failed = true
		} else {
			fmt.Println(s.ok("token exchange succeeded"))
		}
	}

	if runtime.GOOS != "darwin" {
		fmt.Println(s.fail("player control requires macOS (osascript); catalog tools still work"))
	} else if _, err := exec.LookPath("osascript"); err != nil {
		fmt.Println(s.fail("osascript not found in PATH"))
		failed = true
	} else {
		fmt.Println(s.ok("osascript available"))
	}

	if failed {
		os.Exit(ExitGenericError)
	}
	return nil
}
