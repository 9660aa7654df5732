package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/gowick"
	"github.com/njchilds90/gowick/models"
	"github.com/njchilds90/gowick/termstore"
)

var (
	expandModel      string
	expandInput      string
	expandSymmetries []string
	expandClearEtas  bool
	expandRaw        bool
	expandLaTeX      bool
	expandSave       string
	expandRow        int
	expandCol        int

	loadSize    int
	loadLaTeX   bool
	loadArchive bool

	archiveSize int
)

// expandCmd runs Wick's theorem on a model
var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Contract a model Hamiltonian (or terms read from --input)",
	Long: `Applies Wick's theorem with the pairing templates of a model and cleans
the result. Input terms use the gowick notation, one per line:

  -1 sum:momentum{k,q} c:V{;} c{k;up}^+ c{-k;down}^+ c{-q;down} c{q;up}

Use --save M (or N) with --row/--col to store the result in the term store.`,
	Example: `  gowick expand --model bcs --clear-etas
  gowick expand --model hubbard --input terms.txt --latex`,
	RunE: runExpand,
}

// loadCmd prints stored term matrices
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print the stored M and N matrices",
	RunE:  runLoad,
}

// archiveCmd copies the file store into the SQLite archive
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Import the term files into the SQLite archive",
	RunE:  runArchive,
}

func init() {
	f := expandCmd.Flags()
	f.StringVarP(&expandModel, "model", "m", "", "model name (default from config)")
	f.StringVarP(&expandInput, "input", "i", "", "file with input terms, - for stdin")
	f.StringArrayVar(&expandSymmetries, "symmetry", nil, "symmetry to apply (repeatable); replaces the model's")
	f.BoolVar(&expandClearEtas, "clear-etas", false, "drop terms with eta expectation values")
	f.BoolVar(&expandRaw, "raw", false, "skip the cleanup pass")
	f.BoolVar(&expandLaTeX, "latex", false, "print LaTeX instead of gowick notation")
	f.StringVar(&expandSave, "save", "", "store the result as entry of matrix M or N")
	f.IntVar(&expandRow, "row", 0, "row of the stored entry")
	f.IntVar(&expandCol, "col", 0, "column of the stored entry")

	loadCmd.Flags().IntVarP(&loadSize, "size", "n", 1, "matrix dimension")
	loadCmd.Flags().BoolVar(&loadLaTeX, "latex", false, "print LaTeX")
	loadCmd.Flags().BoolVar(&loadArchive, "from-archive", false, "read from the SQLite archive instead of the files")

	archiveCmd.Flags().IntVarP(&archiveSize, "size", "n", 1, "matrix dimension")
}

func runExpand(cmd *cobra.Command, args []string) error {
	name := expandModel
	if name == "" {
		name = cfg.Engine.Model
	}
	m, err := models.ByName(name)
	if err != nil {
		return err
	}
	terms, err := readTerms(cmd.InOrStdin(), expandInput)
	if err != nil {
		return err
	}

	opts := models.Options{
		Workers:   cfg.Engine.Workers,
		ClearEtas: expandClearEtas || cfg.Engine.ClearEtas,
		Raw:       expandRaw,
	}
	symNames := cfg.Engine.Symmetries
	if cmd.Flags().Changed("symmetry") {
		symNames = expandSymmetries
	}
	if len(symNames) > 0 {
		if opts.Symmetries, err = gowick.ParseSymmetries(symNames); err != nil {
			return err
		}
	}

	logger.Debug("expanding", zap.String("model", m.Name()), zap.Int("terms", len(terms)), zap.Int("workers", opts.Workers))
	out, err := models.Expand(cmd.Context(), m, terms, opts)
	if err != nil {
		return err
	}
	logger.Info("expansion finished", zap.String("model", m.Name()), zap.Int("result_terms", len(out)))

	if expandSave != "" {
		kind := termstore.Kind(strings.ToUpper(expandSave))
		if kind != termstore.KindM && kind != termstore.KindN {
			return fmt.Errorf("--save must be M or N, got %q", expandSave)
		}
		store, err := fileStore()
		if err != nil {
			return err
		}
		if err := store.SaveCollector(kind, expandRow, expandCol, out); err != nil {
			return err
		}
	}
	return printCollector(cmd.OutOrStdout(), out, expandLaTeX)
}

func runLoad(cmd *cobra.Command, args []string) error {
	var m, n termstore.Matrix
	if loadArchive {
		a, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if m, err = a.LoadMatrix(cmd.Context(), termstore.KindM, loadSize); err != nil {
			return err
		}
		if n, err = a.LoadMatrix(cmd.Context(), termstore.KindN, loadSize); err != nil {
			return err
		}
	} else {
		store, err := fileStore()
		if err != nil {
			return err
		}
		if m, n, err = store.Load(loadSize); err != nil {
			return err
		}
	}
	w := cmd.OutOrStdout()
	for _, mat := range []struct {
		kind termstore.Kind
		m    termstore.Matrix
	}{{termstore.KindM, m}, {termstore.KindN, n}} {
		for row := 0; row < mat.m.N; row++ {
			for col := 0; col < mat.m.N; col++ {
				fmt.Fprintf(w, "# %s[%d,%d]\n", mat.kind, row, col)
				if err := printCollector(w, mat.m.At(row, col), loadLaTeX); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	store, err := fileStore()
	if err != nil {
		return err
	}
	a, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Import(cmd.Context(), store, archiveSize); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "archived %dx%d matrices into %s\n", archiveSize, archiveSize, cfg.Store.Archive)
	return nil
}

func fileStore() (*termstore.FileStore, error) {
	store, err := cfg.Store.FileStore()
	if err != nil {
		return nil, err
	}
	store.Logger = logger
	return store, nil
}

func openArchive(cmd *cobra.Command) (*termstore.Archive, error) {
	if cfg.Store.Archive == "" {
		return nil, fmt.Errorf("store.archive is not configured")
	}
	return termstore.OpenArchive(cmd.Context(), cfg.Store.Archive, logger)
}

// readTerms returns nil for an empty path so the model Hamiltonian is used.
func readTerms(stdin io.Reader, path string) ([]gowick.Term, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return nil, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read terms: %w", err)
	}
	return gowick.ParseTerms(string(data))
}

func printCollector(w io.Writer, c gowick.WickTermCollector, latex bool) error {
	text := c.String()
	if latex || len(c) == 0 {
		text = c.LaTeX()
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
