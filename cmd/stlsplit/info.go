package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlsplit/pkg/analysis"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display general information about a mesh",
	Long:  "Show triangle and vertex counts, degenerate faces, surface area, bounds, edge statistics and connectivity.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	loaded, err := loadMesh(cmd.Context(), filename)
	if err != nil {
		return err
	}
	result := analysis.AnalyzeMesh(loaded.Mesh)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh Information")
	fmt.Fprintln(out, "================")
	if loaded.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", loaded.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Mesh Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Degenerate triangles: %d\n", result.DegenerateCount)
	fmt.Fprintf(out, "  Connected components: %d\n", result.Components)
	fmt.Fprintf(out, "  Mean neighbours per face: %.2f\n", result.AvgNeighbors)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	if result.VertexCount > 0 {
		fmt.Fprintln(out, "Bounding Box:")
		fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
		fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
		fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

		fmt.Fprintln(out, "Dimensions:")
		fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
		fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
		fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z)
		fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())
	}

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
	return nil
}
