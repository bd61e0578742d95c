package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ryandataengineergit/martlint/internal/cli/output"
	"github.com/ryandataengineergit/martlint/internal/dag"
	"github.com/ryandataengineergit/martlint/internal/loader"
	"github.com/ryandataengineergit/martlint/pkg/lint"
	"github.com/ryandataengineergit/martlint/pkg/registry"
	"github.com/spf13/cobra"
)

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag [path]",
		Short: "Show the reference graph",
		Long: `Display the reference graph of all models and source tables.

Nodes are grouped by dependency level: level 0 holds sources and
models without references, each following level holds nodes whose
references all live in earlier levels.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format`,
		Example: `  # Show the graph
  martlint dag

  # Output as JSON
  martlint dag --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runDAG(cmd, path)
		},
	}

	return cmd
}

func runDAG(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	dir := cfg.ModelsDir
	if path != "" {
		dir = path
	}

	result, err := loader.Load(dir)
	if err != nil {
		return err
	}

	reg, err := registry.Build(result.Models, result.Sources)
	if err != nil {
		return err
	}

	policy := lint.DefaultUtilityPolicy()
	if cfg.Lint != nil {
		policy = cfg.Lint.Utility.Policy()
	}
	ctx := lint.NewContext(reg, policy, nil)
	graph := ctx.Graph()

	levels, err := graph.Levels()
	if err != nil {
		return fmt.Errorf("failed to compute dependency levels: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return dagJSON(r, graph, levels)
	case output.ModeMarkdown:
		return dagMarkdown(r, graph, levels)
	default:
		return dagText(r, graph, levels)
	}
}

// dagText outputs the graph as a table, one row per node.
func dagText(r *output.Renderer, graph *dag.Graph, levels [][]string) error {
	styles := r.Styles()

	r.Header(1, "Reference Graph")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Level", "Node", "References", "Referenced By"})
	for i, level := range levels {
		for _, node := range level {
			t.AppendRow(table.Row{
				i,
				node,
				strings.Join(graph.Parents(node), ", "),
				strings.Join(graph.Children(node), ", "),
			})
		}
		t.AppendSeparator()
	}
	t.Render()

	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d nodes, %d references", graph.NodeCount(), graph.EdgeCount())))

	return nil
}

// dagMarkdown outputs the graph in markdown format.
func dagMarkdown(r *output.Renderer, graph *dag.Graph, levels [][]string) error {
	r.Println(output.FormatHeader(1, "Reference Graph"))
	r.Println("")

	for i, level := range levels {
		levelName := fmt.Sprintf("Level %d", i)
		if i == 0 {
			levelName = "Level 0 (Sources and roots)"
		}
		r.Println(output.FormatHeader(2, levelName))

		for _, node := range level {
			parents := graph.Parents(node)
			children := graph.Children(node)

			r.Printf("- %s\n", node)
			if len(parents) > 0 {
				r.Printf("  - references: %s\n", strings.Join(parents, ", "))
			}
			if len(children) > 0 {
				r.Printf("  - referenced by: %s\n", strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Nodes", fmt.Sprintf("%d", graph.NodeCount())))
	r.Println(output.FormatKeyValue("Total References", fmt.Sprintf("%d", graph.EdgeCount())))

	return nil
}

// DAGNode is one node in the JSON graph output.
type DAGNode struct {
	Name         string   `json:"name"`
	References   []string `json:"references,omitempty"`
	ReferencedBy []string `json:"referenced_by,omitempty"`
}

// DAGLevel is one dependency level in the JSON graph output.
type DAGLevel struct {
	Level int       `json:"level"`
	Nodes []DAGNode `json:"nodes"`
}

// DAGOutput is the JSON output structure for the dag command.
type DAGOutput struct {
	Levels     []DAGLevel `json:"levels"`
	TotalNodes int        `json:"total_nodes"`
	TotalEdges int        `json:"total_edges"`
}

// dagJSON outputs the graph in JSON format.
func dagJSON(r *output.Renderer, graph *dag.Graph, levels [][]string) error {
	out := DAGOutput{
		Levels:     make([]DAGLevel, 0, len(levels)),
		TotalNodes: graph.NodeCount(),
		TotalEdges: graph.EdgeCount(),
	}

	for i, level := range levels {
		dagLevel := DAGLevel{
			Level: i,
			Nodes: make([]DAGNode, 0, len(level)),
		}
		for _, node := range level {
			dagLevel.Nodes = append(dagLevel.Nodes, DAGNode{
				Name:         node,
				References:   graph.Parents(node),
				ReferencedBy: graph.Children(node),
			})
		}
		out.Levels = append(out.Levels, dagLevel)
	}

	return r.JSON(out)
}
