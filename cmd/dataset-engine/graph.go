// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/dataset-engine/internal/frame"
	"github.com/pdiddy/dataset-engine/internal/graphs"
	"github.com/pdiddy/dataset-engine/internal/sparse"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build graphs and inspect their matrices",
	Long: `Graph builds an undirected graph from an edge-list CSV, or uses the
built-in Zachary karate club network, and inspects it: order, size,
density and degrees, shortest paths, and the adjacency, incidence and
Laplacian matrices, densely or in compressed sparse row form.`,
}

// --- demo subcommand ---

var graphDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through the karate club network",
	Long: `Demo runs the graph walkthrough on the karate club network: basic
measures, the shortest path between the instructor and the president,
and the sparse adjacency storage comparison.`,
	RunE: runGraphDemo,
}

func runGraphDemo(cmd *cobra.Command, args []string) error {
	g := graphs.KarateClub()

	title("Zachary karate club")
	printGraphMeasures(g)

	// Members 01 and 34 are the instructor and the club president, the
	// two hubs the network split between.
	nodes, cost, err := g.ShortestPath("01", "34")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "shortest path 01 to 34: %s (cost %g)\n\n", strings.Join(nodes, " -> "), cost)

	sparse.CompareFootprint(os.Stdout, g.AdjacencyCSR())
	return nil
}

// --- stats subcommand ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Order, size, density and the degree table",
	RunE:  runGraphStats,
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	g, err := graphFromFlags(cmd)
	if err != nil {
		return err
	}
	printGraphMeasures(g)

	nodes := g.Nodes()
	degrees := make([]int64, len(nodes))
	for i, n := range nodes {
		degrees[i] = int64(g.Degree(n))
	}
	table, err := frame.New("degrees",
		frame.NewStringColumn("node", nodes, nil),
		frame.NewIntColumn("degree", degrees, nil))
	if err != nil {
		return err
	}
	if table, err = table.Sort("degree", false); err != nil {
		return err
	}
	return emitResult(cmd, "graph-stats", map[string]string{"order": fmt.Sprint(g.Order())}, table)
}

func printGraphMeasures(g *graphs.Graph) {
	fmt.Fprintf(os.Stdout, "order %d, size %d, density %.4f\n", g.Order(), g.Size(), g.Density())
}

// --- path subcommand ---

var graphPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Shortest path between two nodes",
	Long: `Path runs Dijkstra between --from and --to over the edge weights and
prints the node sequence with its total cost.`,
	RunE: runGraphPath,
}

func runGraphPath(cmd *cobra.Command, args []string) error {
	g, err := graphFromFlags(cmd)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" || to == "" {
		return fmt.Errorf("provide --from and --to")
	}

	nodes, cost, err := g.ShortestPath(from, to)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s (cost %g)\n", strings.Join(nodes, " -> "), cost)
	return nil
}

// --- matrix subcommand ---

var graphMatrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the adjacency, incidence or Laplacian matrix",
	Long: `Matrix prints one of the graph's matrices. With --sparse the matrix is
converted to compressed sparse row form and only the storage comparison
is printed, which is the point once the graph is big.`,
	RunE: runGraphMatrix,
}

func runGraphMatrix(cmd *cobra.Command, args []string) error {
	g, err := graphFromFlags(cmd)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	var m *mat.Dense
	switch kind {
	case "adjacency":
		m = g.Adjacency()
	case "incidence":
		m = g.Incidence()
	case "laplacian":
		m = g.Laplacian()
	default:
		return fmt.Errorf("unknown matrix kind %q (want adjacency, incidence or laplacian)", kind)
	}

	if sparseOut, _ := cmd.Flags().GetBool("sparse"); sparseOut {
		csr := sparse.FromDense(m, 0)
		r, c := csr.Dims()
		fmt.Fprintf(os.Stdout, "%s: %d x %d, %d nonzeros\n", kind, r, c, csr.NNZ())
		sparse.CompareFootprint(os.Stdout, csr)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%v\n", mat.Formatted(m))
	return nil
}

// --- shared helpers ---

// graphFromFlags builds the graph the inherited flags select: the karate
// club, or an edge-list CSV with configurable endpoint columns.
func graphFromFlags(cmd *cobra.Command) (*graphs.Graph, error) {
	karate, _ := cmd.Flags().GetBool("karate")
	edgesPath, _ := cmd.Flags().GetString("edges")

	switch {
	case karate:
		return graphs.KarateClub(), nil
	case edgesPath != "":
		f, err := frame.ReadCSVFile(edgesPath)
		if err != nil {
			return nil, fmt.Errorf("loading edge list: %w", err)
		}
		srcCol, _ := cmd.Flags().GetString("src")
		dstCol, _ := cmd.Flags().GetString("dst")
		weightCol, _ := cmd.Flags().GetString("weight")
		g, skipped, err := graphs.FromEdgeList(f, srcCol, dstCol, weightCol)
		if err != nil {
			return nil, err
		}
		if skipped > 0 {
			fmt.Fprintf(os.Stderr, "%d edge row(s) skipped for missing endpoints\n", skipped)
		}
		return g, nil
	}
	return nil, fmt.Errorf("provide --edges or --karate")
}

func init() {
	// Graph-source flags on the parent command, inherited by subcommands.
	graphCmd.PersistentFlags().String("edges", "", "edge-list CSV path")
	graphCmd.PersistentFlags().String("src", "from", "edge source column in the edge list")
	graphCmd.PersistentFlags().String("dst", "to", "edge target column in the edge list")
	graphCmd.PersistentFlags().String("weight", "", "edge weight column (default: all edges weigh 1)")
	graphCmd.PersistentFlags().Bool("karate", false, "use the built-in karate club network")

	// Path flags.
	graphPathCmd.Flags().String("from", "", "start node label")
	graphPathCmd.Flags().String("to", "", "end node label")

	// Matrix flags.
	graphMatrixCmd.Flags().String("kind", "adjacency", "matrix kind: adjacency, incidence or laplacian")
	graphMatrixCmd.Flags().Bool("sparse", false, "convert to CSR and print the storage comparison")

	// Stats flags.
	addSaveFlag(graphStatsCmd)

	// Wire subcommands.
	graphCmd.AddCommand(graphDemoCmd)
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphPathCmd)
	graphCmd.AddCommand(graphMatrixCmd)

	rootCmd.AddCommand(graphCmd)
}
