package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matchex/matchex"
	"github.com/matchex/matchex/tokenize"
)

var (
	matchJsonOutput bool
	outPath         string
)

var (
	fileStyle = color.New(color.FgCyan, color.Bold)
	keyStyle  = color.New(color.FgYellow, color.Bold)
	spanStyle = color.New(color.FgHiBlue)
	textStyle = color.New(color.FgGreen)
)

type fileMatch struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Text     string `json:"text"`
}

var matchCmd = &cobra.Command{
	Use:   "match [paths...]",
	Short: "Run the rules from a rule file against text files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths")
			os.Exit(1)
		}
		if rulesFile == "" {
			fmt.Println("error: Please provide a rule file with --rules")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rules, err := matchex.LoadRules(rulesFile)
		if err != nil {
			logger.Fatal("Failed to load rule file", zap.Error(err))
		}

		m := matchex.NewMatcher()
		if err := m.AddRules(rules); err != nil {
			logger.Fatal("Failed to register rules", zap.Error(err))
		}

		runMatchProcess(ctx, logger, m, args, matchJsonOutput, outPath)
	},
}

func init() {
	matchCmd.Flags().BoolVar(&matchJsonOutput, "json", false, "Output matches in JSON format")
	matchCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func runMatchProcess(ctx context.Context, logger *zap.Logger, m *matchex.Matcher, paths []string, isJson bool, jsonOutput string) {
	results, err := processFiles(ctx, m, paths)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	printMatches(logger, results, isJson, jsonOutput)
}

func processFiles(ctx context.Context, m *matchex.Matcher, paths []string) ([]fileMatch, error) {
	var bar *progressbar.ProgressBar
	if len(paths) > 1 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("matching"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	var results []fileMatch
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}

		tokens := tokenize.Tokenize(string(data))
		matches, err := m.Find(tokens)
		if err != nil {
			return nil, fmt.Errorf("error matching %s: %w", path, err)
		}

		for _, match := range matches {
			results = append(results, fileMatch{
				Filename: path,
				Key:      match.Key,
				Start:    match.Start,
				End:      match.End,
				Text:     spanText(tokens, match),
			})
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Println()
	}

	return results, nil
}

func spanText(tokens []matchex.Token, m matchex.Match) string {
	var sb strings.Builder
	for i := m.Start; i < m.End; i++ {
		text, _ := tokens[i].Attr("TEXT")
		sb.WriteString(text)
		if i+1 < m.End {
			sb.WriteString(tokens[i].Whitespace())
		}
	}
	return sb.String()
}

func printMatches(logger *zap.Logger, results []fileMatch, isJson bool, jsonOutput string) {
	matchesByFile := make(map[string][]fileMatch)
	for _, r := range results {
		matchesByFile[r.Filename] = append(matchesByFile[r.Filename], r)
	}

	sortedFiles := make([]string, 0, len(matchesByFile))
	for filename := range matchesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJson {
		// text output
		for _, filename := range sortedFiles {
			fileStyle.Println(filename)
			for _, r := range matchesByFile[filename] {
				fmt.Printf("  %s %s %s\n",
					keyStyle.Sprint(r.Key),
					spanStyle.Sprintf("[%d:%d]", r.Start, r.End),
					textStyle.Sprint(r.Text))
			}
			fmt.Println()
		}
	} else {
		// JSON output
		d, err := json.Marshal(matchesByFile)
		if err != nil {
			logger.Error("Error marshalling matches to JSON", zap.Error(err))
			return
		}
		if jsonOutput == "" {
			fmt.Println(string(d))
		} else {
			f, err := os.Create(jsonOutput)
			if err != nil {
				logger.Error("Error creating JSON output file", zap.Error(err))
				return
			}
			defer f.Close()
			_, err = f.Write(d)
			if err != nil {
				logger.Error("Error writing JSON output file", zap.Error(err))
				return
			}
		}
	}
}
