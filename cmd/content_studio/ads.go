package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/content-studio/internal/client"
	"github.com/jonathan/content-studio/internal/types"
	"github.com/jonathan/content-studio/internal/workflow"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newAdsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ads",
		Short: "Ad copy consultant",
	}
	cmd.AddCommand(newAdsRunCmd(a))
	return cmd
}

type adsRunOptions struct {
	scriptFile  string
	contentType string
	answersFile string
	improve     bool
	remote      string
}

func newAdsRunCmd(a *app) *cobra.Command {
	opts := &adsRunOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Diagnose an ad script, refine the answers and write the final copy",
		Long: `Runs the consultant end to end: the script is diagnosed with six questions, the answers
come from --answers and/or are written by the model with --improve, and the final copy is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAds(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.scriptFile, "script-file", "", "Path to the ad script ('-' reads stdin)")
	cmd.Flags().StringVar(&opts.contentType, "type", string(types.ContentReel), "Reel, Carrusel or B-roll")
	cmd.Flags().StringVar(&opts.answersFile, "answers", "", "JSON file with refinement answers keyed by answer key")
	cmd.Flags().BoolVar(&opts.improve, "improve", false, "Ask the model to write every answer left empty")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "Base URL of a content_studio server to use instead of calling the model directly")
	_ = cmd.MarkFlagRequired("script-file")
	return cmd
}

func readScript(cmd *cobra.Command, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(raw), nil
}

func readAnswers(path string) (types.RefinedAnswers, error) {
	var answers types.RefinedAnswers
	if path == "" {
		return answers, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return answers, fmt.Errorf("failed to read answers: %w", err)
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return answers, fmt.Errorf("failed to parse answers: %w", err)
	}
	return answers, nil
}

// generator picks the HTTP client for --remote and the in-process gateway otherwise.
func (a *app) generator(cmd *cobra.Command, remote string) (workflow.Generator, func(), error) {
	if remote != "" {
		c, err := client.New(remote, nil)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}
	gw, closeGW, err := a.gateway(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return gw, closeGW, nil
}

func (a *app) runAds(cmd *cobra.Command, opts *adsRunOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	contentType := types.AdContentType(opts.contentType)
	if !contentType.IsValid() {
		return fmt.Errorf("invalid content type %q: expected one of %v", opts.contentType, types.AdContentTypes)
	}
	script, err := readScript(cmd, opts.scriptFile)
	if err != nil {
		return err
	}
	answers, err := readAnswers(opts.answersFile)
	if err != nil {
		return err
	}

	store, closeStore, err := a.profiles(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	var training types.TrainingData
	if p, ok := store.Active(); ok {
		training = p.Data
	} else if opts.improve {
		a.logger.Warn("no active profile; improved answers will not use a brand voice")
	}

	gen, closeGen, err := a.generator(cmd, opts.remote)
	if err != nil {
		return err
	}
	defer closeGen()

	wf := workflow.New(gen, training)
	if err := wf.SetContentType(contentType); err != nil {
		return err
	}
	if err := wf.SetScript(script); err != nil {
		return err
	}

	fmt.Fprintln(out, "Analizando tu guion...")
	if err := wf.Submit(ctx); err != nil {
		return err
	}
	printer(cmd).PrintDiagnosis(wf.Snapshot().Diagnosis)

	var missing []types.AnswerKey
	for _, key := range types.AnswerKeys {
		v := answers.Get(key)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
			continue
		}
		if err := wf.SetAnswer(key, v); err != nil {
			return err
		}
	}

	if opts.improve && len(missing) > 0 {
		fmt.Fprintf(out, "Mejorando %d respuestas con IA...\n", len(missing))
		g, gctx := errgroup.WithContext(ctx)
		for _, key := range missing {
			g.Go(func() error {
				if err := wf.ImproveAnswer(gctx, key); err != nil {
					return fmt.Errorf("failed to improve %s: %w", key, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Generando el copy final...")
	if err := wf.Generate(ctx); err != nil {
		return err
	}
	snap := wf.Snapshot()
	printer(cmd).PrintAdCopy(*snap.Result)
	return nil
}
