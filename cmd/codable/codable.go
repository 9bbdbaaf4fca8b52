package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/reoring/codable"
	stdjson "github.com/reoring/codable/source/json"
	"github.com/reoring/codable/value"
)

func codableMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	if cfg.StdJSON {
		codable.SetJSONDriver(stdjson.Driver{})
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires a path", cli.ErrUsage)
	}
	path, err := codable.ParsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return eachInput(cc, args[1:], func(name string, r io.Reader) error {
		if err := getPath(cfg.MainConfig, cc.Out, r, path); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

func keys(cfg *KeysConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Keys.Parse(cc, args)
	if err != nil {
		cfg.Keys.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: keys requires a path", cli.ErrUsage)
	}
	path, err := codable.ParsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return eachInput(cc, args[1:], func(name string, r io.Reader) error {
		if err := listKeys(cfg, cc.Out, r, path); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

func dups(cfg *DupsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dups.Parse(cc, args)
	if err != nil {
		cfg.Dups.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Y {
		return fmt.Errorf("%w: dups reads json only", cli.ErrUsage)
	}
	found := 0
	err = eachInput(cc, args, func(name string, r io.Reader) error {
		n, err := reportDuplicates(cc.Out, name, r)
		found += n
		return err
	})
	if err != nil {
		return err
	}
	if found > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	var docs [2]string
	for i, name := range args {
		if err := eachInput(cc, []string{name}, func(_ string, r io.Reader) error {
			tree, err := readTree(cfg.MainConfig, r)
			if err != nil {
				return err
			}
			docs[i], err = render(tree, cfg.Y)
			return err
		}); err != nil {
			return fmt.Errorf("error reading %s: %w", name, err)
		}
	}
	if writeDiff(cc.Out, docs[0], docs[1], cfg.colored(cc.Out)) {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	toYAML := !cfg.Y
	switch cfg.To {
	case "":
	case "yaml", "y":
		toYAML = true
	case "json", "j":
		toYAML = false
	default:
		return fmt.Errorf("%w: unknown format %q", cli.ErrUsage, cfg.To)
	}
	return eachInput(cc, args, func(name string, r io.Reader) error {
		tree, err := readTree(cfg.MainConfig, r)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out, err := render(tree, toYAML)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cc.Out, out)
		return err
	})
}

// eachInput calls fn for every named file, or for stdin when names is
// empty or "-".
func eachInput(cc *cli.Context, names []string, fn func(string, io.Reader) error) error {
	if len(names) == 0 {
		names = []string{"-"}
	}
	for _, name := range names {
		if name == "-" {
			if err := fn("<stdin>", cc.In); err != nil {
				return err
			}
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		err = fn(name, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func readTree(cfg *MainConfig, r io.Reader) (any, error) {
	if cfg.Y {
		return codable.ReadYAMLReader(r, cfg.readOpt())
	}
	return codable.ReadJSONReader(r, cfg.readOpt())
}

func render(tree any, yaml bool) (string, error) {
	if yaml {
		out, err := value.MarshalYAML(tree)
		return string(out), err
	}
	out, err := value.MarshalJSONIndent(tree, "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func getPath(cfg *MainConfig, w io.Writer, r io.Reader, path codable.Path) error {
	tree, err := readTree(cfg, r)
	if err != nil {
		return err
	}
	c := codable.NewDecodingContainer(tree, cfg.decodingContext()).NestedContainerForPath(path)
	v, err := c.DecodeValue(nil)
	if err != nil {
		return err
	}
	out, err := render(v, cfg.Y)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func listKeys(cfg *KeysConfig, w io.Writer, r io.Reader, path codable.Path) error {
	tree, err := readTree(cfg.MainConfig, r)
	if err != nil {
		return err
	}
	c := codable.NewDecodingContainer(tree, cfg.decodingContext()).NestedContainerForPath(path)
	ks, err := c.DecodeArrayKeys()
	if err != nil {
		return err
	}
	for _, k := range ks {
		s := k.String()
		if cfg.Pointer {
			s = append(path[:len(path):len(path)], k).Pointer()
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

func reportDuplicates(w io.Writer, name string, r io.Reader) (int, error) {
	found, err := codable.DuplicateKeysReader(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	for _, e := range found {
		if _, err := fmt.Fprintf(w, "%s: duplicate key %s\n", name, e.Path.Pointer()); err != nil {
			return 0, err
		}
	}
	return len(found), nil
}

// writeDiff writes a line diff of a and b and reports whether they differ.
func writeDiff(w io.Writer, a, b string, colored bool) bool {
	dmp := diffpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)

	del, ins := fmt.Sprint, fmt.Sprint
	if colored {
		del = color.New(color.FgRed).SprintFunc()
		ins = color.New(color.FgGreen).SprintFunc()
	}
	differs := false
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch d.Type {
			case diffpatch.DiffDelete:
				differs = true
				fmt.Fprint(w, del("- "+line))
			case diffpatch.DiffInsert:
				differs = true
				fmt.Fprint(w, ins("+ "+line))
			case diffpatch.DiffEqual:
				fmt.Fprint(w, "  "+line)
			}
		}
	}
	return differs
}
