package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlsplit/pkg/analysis"
)

var (
	faceCount    int
	faceLargest  bool
	faceSmallest bool
)

type faceInfo struct {
	Index      int
	Area       float64
	Normal     string
	Centroid   string
	Neighbours int
}

var facesCmd = &cobra.Command{
	Use:   "faces <file>",
	Short: "List faces with their index, normal, centroid and area",
	Long:  "Display per-face information to find seed faces and normal directions for selection rules.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFaces,
}

func init() {
	rootCmd.AddCommand(facesCmd)

	facesCmd.Flags().IntVarP(&faceCount, "count", "n", 10, "Number of faces to display")
	facesCmd.Flags().BoolVarP(&faceLargest, "largest", "l", false, "Show largest faces by area")
	facesCmd.Flags().BoolVarP(&faceSmallest, "smallest", "s", false, "Show smallest faces by area")
	facesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")
}

func runFaces(cmd *cobra.Command, args []string) error {
	if faceCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", faceCount)
	}

	loaded, err := loadMesh(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	m := loaded.Mesh
	if m.FaceCount() == 0 {
		return fmt.Errorf("%s has no faces", args[0])
	}

	adjacency := m.Adjacency()
	faces := make([]faceInfo, 0, m.FaceCount())
	totalArea := 0.0
	minArea := math.MaxFloat64
	maxArea := 0.0

	for f := 0; f < m.FaceCount(); f++ {
		tri, _ := m.Triangle(f)
		area := tri.Area()

		faces = append(faces, faceInfo{
			Index:      f,
			Area:       area,
			Normal:     analysis.FormatVector(tri.Normal),
			Centroid:   analysis.FormatVector(tri.Centroid()),
			Neighbours: len(adjacency[f]),
		})

		totalArea += area
		minArea = math.Min(minArea, area)
		maxArea = math.Max(maxArea, area)
	}

	if faceLargest {
		sort.SliceStable(faces, func(i, j int) bool {
			return faces[i].Area > faces[j].Area
		})
	} else if faceSmallest {
		sort.SliceStable(faces, func(i, j int) bool {
			return faces[i].Area < faces[j].Area
		})
	}

	count := min(faceCount, len(faces))

	var title string
	if faceLargest {
		title = fmt.Sprintf("Top %d Largest Faces", count)
	} else if faceSmallest {
		title = fmt.Sprintf("Top %d Smallest Faces", count)
	} else {
		title = fmt.Sprintf("First %d Faces", count)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total faces: %d\n", len(faces))
	fmt.Fprintf(out, "Total surface area: %.6f square units\n", totalArea)
	fmt.Fprintf(out, "Min face area: %.6f square units\n", minArea)
	fmt.Fprintf(out, "Max face area: %.6f square units\n", maxArea)
	fmt.Fprintf(out, "Avg face area: %.6f square units\n\n", totalArea/float64(len(faces)))

	for _, face := range faces[:count] {
		fmt.Fprintf(out, "Face #%d:\n", face.Index)
		fmt.Fprintf(out, "  Area: %.6f square units\n", face.Area)
		fmt.Fprintf(out, "  Normal: %s\n", face.Normal)
		fmt.Fprintf(out, "  Centroid: %s\n", face.Centroid)
		fmt.Fprintf(out, "  Neighbours: %d\n\n", face.Neighbours)
	}
	return nil
}
