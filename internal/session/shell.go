package session

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/selection"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

var errQuit = errors.New("quit")

// Shell reads one command per line and applies it to a session. Each
// line is parsed by a fresh cobra command tree, so flags never leak
// between lines.
type Shell struct {
	session *Session
	out     io.Writer
	// Prompt is printed before each line when not empty
	Prompt string
}

// NewShell creates a shell writing its responses to out
func NewShell(s *Session, out io.Writer) *Shell {
	return &Shell{session: s, out: out}
}

// Run processes lines from in until EOF, quit or cancellation of ctx.
// Failing commands print an error and the shell continues.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sh.Prompt != "" {
			fmt.Fprint(sh.out, sh.Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		err := sh.Exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line. Blank lines and # comments are ignored.
func (sh *Shell) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	root := sh.commands()
	root.SetArgs(escapeNegativeNumbers(strings.Fields(line)))
	return root.Execute()
}

// escapeNegativeNumbers inserts "--" before the first negative number that
// is not a flag value, so "box -1 -1 -1 1 1 1" is not read as shorthand
// flags. Flags must therefore precede negative coordinates.
func escapeNegativeNumbers(args []string) []string {
	for i := 1; i < len(args); i++ {
		if args[i] == "--" {
			return args
		}
		if !isNegativeNumber(args[i]) {
			continue
		}
		prev := args[i-1]
		if strings.HasPrefix(prev, "-") && !strings.Contains(prev, "=") && !isNegativeNumber(prev) {
			continue
		}
		escaped := append(slices.Clone(args[:i]), "--")
		return append(escaped, args[i:]...)
	}
	return args
}

func isNegativeNumber(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (sh *Shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "stlsplit>",
		SilenceUsage:  true,
		SilenceErrors: true,
		// the shell has its own help
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetOut(sh.out)
	root.SetErr(sh.out)

	root.AddCommand(
		sh.pickCmd(),
		sh.growCmd(),
		sh.normalCmd(),
		sh.boxCmd(),
		sh.newCmd(),
		sh.nextCmd(),
		sh.useCmd(),
		sh.renameCmd(),
		sh.clearCmd(),
		sh.modeCmd(),
		sh.statusCmd(),
		sh.exportCmd(),
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the session",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return errQuit
			},
		},
	)
	return root
}

func parseFaces(args []string) ([]int, error) {
	faces := make([]int, 0, len(args))
	for _, a := range args {
		f, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid face index %q", a)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		values = append(values, v)
	}
	return values, nil
}

func (sh *Shell) groupName(id int) string {
	g, err := sh.session.State().Group(id)
	if err != nil {
		return "-"
	}
	return g.Name
}

func (sh *Shell) pickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <face>...",
		Short: "Pick faces using the current mode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			faces, err := parseFaces(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range faces {
				res, err := sh.session.Pick(f)
				if err != nil {
					return err
				}
				switch {
				case sh.session.Mode() == ModeGrow:
					fmt.Fprintf(out, "face %d: region of %d faces, %d new in %s\n", f, res.Region, res.Added, sh.groupName(res.Group))
				case res.Selected:
					fmt.Fprintf(out, "face %d added to %s\n", f, sh.groupName(res.Group))
				default:
					fmt.Fprintf(out, "face %d removed from %s\n", f, sh.groupName(res.Group))
				}
			}
			return nil
		},
	}
}

func (sh *Shell) growCmd() *cobra.Command {
	var angle float64
	cmd := &cobra.Command{
		Use:   "grow <seed>",
		Short: "Grow a region from a seed face into the active group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			faces, err := parseFaces(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("angle") {
				angle = sh.session.AngleTolerance()
			}
			res, err := sh.session.Grow(faces[0], angle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "face %d: region of %d faces, %d new in %s\n", res.Face, res.Region, res.Added, sh.groupName(res.Group))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&angle, "angle", "a", 0, "Angle tolerance in degrees (default: session tolerance)")
	return cmd
}

func (sh *Shell) normalCmd() *cobra.Command {
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "normal <x> <y> <z>",
		Short: "Add faces facing along a direction to the active group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tolerance") {
				tolerance = sh.session.NormalTolerance()
			}
			if tolerance < 0 {
				return fmt.Errorf("tolerance must not be negative, got %g", tolerance)
			}
			rule := selection.NormalMatch{Target: geometry.NewVector3(v[0], v[1], v[2]), Tolerance: tolerance}
			return sh.applyRule(cmd, rule)
		},
	}
	cmd.Flags().Float64VarP(&tolerance, "tolerance", "t", 0, "Cosine gap tolerance (default: session tolerance)")
	return cmd
}

func (sh *Shell) boxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "box <minX> <minY> <minZ> <maxX> <maxY> <maxZ>",
		Short: "Add faces whose centroid lies in a box to the active group",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			box := geometry.Box(geometry.NewVector3(v[0], v[1], v[2]), geometry.NewVector3(v[3], v[4], v[5]))
			return sh.applyRule(cmd, selection.BoundingBox{Box: box})
		},
	}
	return cmd
}

func (sh *Shell) applyRule(cmd *cobra.Command, rule selection.Rule) error {
	matched, added, err := sh.session.ApplyRule(rule)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d faces, %d new in %s\n", rule, matched, added, sh.groupName(sh.session.State().ActiveID()))
	return nil
}

func (sh *Shell) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Start a new group (reuses the active group while it is empty)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := stl.ValidateName(args[0]); err != nil {
					return err
				}
			}
			state := sh.session.State()
			id := state.CreateGroup()
			if len(args) == 1 {
				if err := state.Rename(id, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active group %d: %s\n", id, sh.groupName(id))
			return nil
		},
	}
}

func (sh *Shell) nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Activate the next group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := sh.session.State()
			state.NextGroup()
			if state.ActiveID() < 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no groups")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active group %d: %s\n", state.ActiveID(), sh.groupName(state.ActiveID()))
			return nil
		},
	}
}

func (sh *Shell) useCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <group>",
		Short: "Activate a group by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid group id %q", args[0])
			}
			if err := sh.session.State().SetActiveGroup(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active group %d: %s\n", id, sh.groupName(id))
			return nil
		},
	}
}

func (sh *Shell) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the active group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := sh.session.State()
			if err := state.Rename(state.ActiveID(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active group %d: %s\n", state.ActiveID(), args[0])
			return nil
		},
	}
}

func (sh *Shell) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the active group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := sh.session.State()
			state.ClearActive()
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", sh.groupName(state.ActiveID()))
			return nil
		},
	}
}

func (sh *Shell) modeCmd() *cobra.Command {
	var angle float64
	cmd := &cobra.Command{
		Use:   "mode [toggle|grow]",
		Short: "Show or change the picking mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				mode, err := ParseMode(args[0])
				if err != nil {
					return err
				}
				sh.session.SetMode(mode)
			}
			if cmd.Flags().Changed("angle") {
				sh.session.SetAngleTolerance(angle)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mode %s, angle tolerance %.2f°\n", sh.session.Mode(), sh.session.AngleTolerance())
			return nil
		},
	}
	cmd.Flags().Float64VarP(&angle, "angle", "a", 0, "Angle tolerance in degrees for grow mode")
	return cmd
}

func (sh *Shell) statusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show mode, groups and selection counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sh.session.State().Snapshot())
			}
			printStatus(out, sh.session.Status())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the selection snapshot as JSON")
	return cmd
}

func printStatus(out io.Writer, st Status) {
	fmt.Fprintf(out, "mode: %s (angle %.2f°)\n", st.Mode, st.AngleTolerance)
	if len(st.Groups) == 0 {
		fmt.Fprintln(out, "no groups")
	}
	for _, g := range st.Groups {
		marker := " "
		if g.Active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d %-16s %6d faces  area %s\n", marker, g.ID, g.Name, g.Faces, formatArea(g.Area))
	}
	fmt.Fprintf(out, "total selected: %d\n", st.Total)
}

func formatArea(a float64) string {
	return strconv.FormatFloat(a, 'f', 4, 64)
}

func (sh *Shell) exportCmd() *cobra.Command {
	var onlySelected bool
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the groups as a multi-solid STL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := sh.session.Export(args[0], onlySelected)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wrote %s\n", res.Path)
			for _, s := range res.Solids {
				fmt.Fprintf(out, "  %-16s %6d facets\n", s.Name, s.Facets)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlySelected, "only-selected", false, "Omit the Body solid of unselected faces")
	return cmd
}
