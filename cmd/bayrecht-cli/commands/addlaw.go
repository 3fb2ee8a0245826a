package commands

import (
	"bayrecht-backend/lib/configutil"
	"bayrecht-backend/lib/serviceutil"
	"bayrecht-backend/services/laws/scraper"
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var addLawConfig *string

func init() {
	addLawConfig = addLawCmd.Flags().String("config", "config.json5", "The scrape config to append to.")
	rootCmd.AddCommand(addLawCmd)
}

var addLawCmd = &cobra.Command{
	Use:   "add-law [--config <path/to/config.json5>]",
	Short: "Interactively appends a law entry to the scrape config.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[scraper.Config](*addLawConfig)
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		in := bufio.NewScanner(os.Stdin)
		id := prompt(in, "External identifier (e.g. BayVersG): ")
		name := prompt(in, "Display name: ")
		prefix := prompt(in, "Url prefix (e.g. BayVersG-): ")
		end, err := strconv.Atoi(prompt(in, "Last article number: "))
		if err != nil {
			serviceutil.Fatal("not a number", err)
		}

		cfg.Laws = append(cfg.Laws, scraper.LawConfig{
			Id:   id,
			Name: name,
			Numbering: scraper.NumberingConfig{
				Type:   "article",
				Prefix: prefix,
				Start:  1,
				End:    end,
			},
		})

		// json is valid json5, so writing plain json keeps the file readable
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to encode config", err)
		}
		err = os.WriteFile(*addLawConfig, append(out, '\n'), 0644)
		if err != nil {
			serviceutil.Fatal("failed to write config", err)
		}
		fmt.Printf("appended %s to %s\n", id, *addLawConfig)
	},
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		os.Exit(1)
	}
	return strings.TrimSpace(in.Text())
}
