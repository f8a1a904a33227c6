package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
	nodeio "github.com/matzehuels/flowgrid/pkg/io"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

const manifestName = "manifest.json"

// batchPlan is the TOML document read by the batch command:
//
//	output_dir = "networks"
//	seed = 100
//
//	[defaults]
//	size = 10.0
//	sinks = 4
//
//	[[network]]
//	name = "small"
//	nodes = 16
//	render = ["svg"]
type batchPlan struct {
	OutputDir string         `toml:"output_dir"`
	Seed      uint64         `toml:"seed"`
	Defaults  grid.Params    `toml:"defaults"`
	Networks  []batchNetwork `toml:"network"`
}

// batchNetwork overrides plan defaults for one network. Nil fields inherit.
type batchNetwork struct {
	Name           string   `toml:"name"`
	Size           *float64 `toml:"size"`
	ProductionRate *int     `toml:"production_rate"`
	Nodes          *int     `toml:"nodes"`
	Sinks          *int     `toml:"sinks"`
	Seed           *uint64  `toml:"seed"`
	Render         []string `toml:"render"`
}

func (n batchNetwork) params(base grid.Params) grid.Params {
	p := base
	if n.Size != nil {
		p.Size = *n.Size
	}
	if n.ProductionRate != nil {
		p.ProductionRate = *n.ProductionRate
	}
	if n.Nodes != nil {
		p.NodeCount = *n.Nodes
	}
	if n.Sinks != nil {
		p.SinkCount = *n.Sinks
	}
	return p
}

// batchManifest records what a batch run produced so it can be reproduced.
type batchManifest struct {
	RunID    string          `json:"run_id"`
	Created  time.Time       `json:"created"`
	Plan     string          `json:"plan"`
	Networks []manifestEntry `json:"networks"`
}

type manifestEntry struct {
	Name    string       `json:"name"`
	File    string       `json:"file"`
	Seed    uint64       `json:"seed"`
	Params  grid.Params  `json:"params"`
	Summary grid.Summary `json:"summary"`
	Renders []string     `json:"renders,omitempty"`
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outputDir string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "batch PLAN.toml",
		Short: "Generate a suite of networks from a TOML plan",
		Long: `Batch reads a TOML plan listing networks under [[network]], generates each
one into the plan's output directory, renders any requested formats and writes
a manifest.json stamped with a run id.

Unset network fields fall back to [defaults], then to the generate settings in
the config file. Networks without a seed get the plan seed plus their index;
a plan without a seed is seeded from the clock.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.loadPlan(args[0])
			if err != nil {
				return err
			}
			if outputDir != "" {
				plan.OutputDir = outputDir
			}
			return c.runBatch(cmd.Context(), args[0], plan, noCache)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: plan's output_dir, relative to the plan)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache for renders")

	return cmd
}

// loadPlan decodes and validates a plan. Nothing is written for an invalid plan.
func (c *CLI) loadPlan(path string) (*batchPlan, error) {
	defaults, err := c.generateParams()
	if err != nil {
		return nil, err
	}
	plan := &batchPlan{Defaults: defaults}
	md, err := toml.DecodeFile(path, plan)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "plan %s", path)
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "plan %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "plan %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}
	if plan.OutputDir == "" {
		plan.OutputDir = "."
	}
	if !filepath.IsAbs(plan.OutputDir) {
		plan.OutputDir = filepath.Join(filepath.Dir(path), plan.OutputDir)
	}
	return plan, nil
}

func (p *batchPlan) validate() error {
	if len(p.Networks) == 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "plan lists no networks")
	}
	seen := make(map[string]bool, len(p.Networks))
	for i, n := range p.Networks {
		switch {
		case n.Name == "":
			return ferrors.New(ferrors.ErrCodeInvalidInput, "network %d: missing name", i)
		case strings.ContainsAny(n.Name, `/\`) || n.Name == "." || n.Name == "..":
			return ferrors.New(ferrors.ErrCodeInvalidPath, "network %q: name must be a plain file name", n.Name)
		case n.Name+".json" == manifestName:
			return ferrors.New(ferrors.ErrCodeInvalidInput, "network %q: name is reserved", n.Name)
		case seen[n.Name]:
			return ferrors.New(ferrors.ErrCodeInvalidInput, "network %q: duplicate name", n.Name)
		}
		seen[n.Name] = true

		if err := n.params(p.Defaults).Validate(); err != nil {
			return fmt.Errorf("network %q: %w", n.Name, err)
		}
		for _, f := range n.Render {
			if err := pipeline.ValidateFormat(f); err != nil {
				return fmt.Errorf("network %q: %w", n.Name, err)
			}
			if f == pipeline.FormatText {
				return ferrors.New(ferrors.ErrCodeInvalidInput, "network %q: the node list is always written; drop %q from render", n.Name, f)
			}
		}
	}
	return nil
}

func (c *CLI) runBatch(ctx context.Context, planPath string, plan *batchPlan, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if err := os.MkdirAll(plan.OutputDir, 0o755); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "create %s", plan.OutputDir)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	baseSeed := plan.Seed
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}

	manifest := batchManifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Plan:    planPath,
	}
	logger.Debug("batch run", "id", manifest.RunID, "networks", len(plan.Networks), "dir", plan.OutputDir)

	for i, n := range plan.Networks {
		if err := ctx.Err(); err != nil {
			return err
		}
		seed := baseSeed + uint64(i)
		if n.Seed != nil {
			seed = *n.Seed
		}
		entry, err := c.batchNetwork(ctx, runner, plan.OutputDir, n, n.params(plan.Defaults), seed)
		if err != nil {
			return fmt.Errorf("network %q: %w", n.Name, err)
		}
		manifest.Networks = append(manifest.Networks, entry)
		printSuccess("%s: %s", n.Name, entry.Summary)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInternal, err, "encode manifest")
	}
	manifestPath := filepath.Join(plan.OutputDir, manifestName)
	if err := os.WriteFile(manifestPath, append(data, '\n'), 0o644); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "write manifest")
	}

	printFile(manifestPath)
	prog.done(fmt.Sprintf("Generated %d networks", len(manifest.Networks)))
	return nil
}

func (c *CLI) batchNetwork(ctx context.Context, runner *pipeline.Runner, dir string, n batchNetwork, params grid.Params, seed uint64) (manifestEntry, error) {
	var buf bytes.Buffer
	summary, err := runner.Generate(ctx, &buf, params, seed)
	if err != nil {
		return manifestEntry{}, err
	}

	entry := manifestEntry{
		Name:    n.Name,
		File:    n.Name + "." + pipeline.FormatText,
		Seed:    seed,
		Params:  params,
		Summary: summary,
	}
	if err := os.WriteFile(filepath.Join(dir, entry.File), buf.Bytes(), 0o644); err != nil {
		return manifestEntry{}, ferrors.Wrap(ferrors.ErrCodeIO, err, "write %s", entry.File)
	}
	if len(n.Render) == 0 {
		return entry, nil
	}

	net, err := nodeio.ReadNodes(&buf)
	if err != nil {
		return manifestEntry{}, err
	}
	for _, format := range n.Render {
		data, _, err := runner.Render(ctx, net, pipeline.RenderOptions{Format: format})
		if err != nil {
			return manifestEntry{}, err
		}
		file := n.Name + "." + format
		if err := os.WriteFile(filepath.Join(dir, file), data, 0o644); err != nil {
			return manifestEntry{}, ferrors.Wrap(ferrors.ErrCodeIO, err, "write %s", file)
		}
		entry.Renders = append(entry.Renders, file)
	}
	return entry, nil
}
