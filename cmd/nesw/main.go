package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/nesw/cipher"
	"github.com/louisbranch/nesw/keyfile"
	"github.com/louisbranch/nesw/keyring"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "encipher":
		return cmdTranscode("encipher", false, args[1:], in, out, errOut)
	case "decipher":
		return cmdTranscode("decipher", true, args[1:], in, out, errOut)
	case "square":
		return cmdSquare(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "key-id":
		return cmdKeyID(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "nesw: NorthEast SouthWest hand cipher")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nesw encipher [-k <keyword>] [-r <pair>] [-d <direction>] [-s <step>] [-w] [--key <name>] [-m <message> | -f <file>] [-o <file>]")
	fmt.Fprintln(w, "  nesw decipher [same flags as encipher]")
	fmt.Fprintln(w, "  nesw square [-k <keyword>] [-r <pair>] [--key <name>]")
	fmt.Fprintln(w, "  nesw key save --name <name> [-k <keyword>] [-r <pair>] [-d <direction>] [-s <step>] [-w] [--force]")
	fmt.Fprintln(w, "  nesw key list")
	fmt.Fprintln(w, "  nesw key show --name <name>")
	fmt.Fprintln(w, "  nesw key rm --name <name>")
	fmt.Fprintln(w, "  nesw key-id [--key <name> | cipher flags] [--check]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - -r is the replacement pair: the omitted letter then its substitute (default ji)")
	fmt.Fprintln(w, "  - -d is the starting direction: n, ne, e, se, s, sw, w, nw (default n)")
	fmt.Fprintln(w, "  - -s is the rotation step, 1-4 (default 2); -w rotates widdershins")
	fmt.Fprintln(w, "  - decipher flips the starting direction itself; pass the enciphering direction")
	fmt.Fprintln(w, "  - -f reads the message from a file, '-' means standard input (the default)")
	fmt.Fprintln(w, "  - -o refuses to overwrite an existing file")
	fmt.Fprintln(w, "  - named keys live under ~/.nesw/keys (0600 key files)")
	fmt.Fprintln(w, "  - key-id prints the key fingerprint; compare it with your correspondent's")
}

// cipherOpts carries the cipher configuration flags shared by most commands.
type cipherOpts struct {
	keyword     string
	replacement string
	direction   string
	step        int
	widdershins bool
	keyName     string
}

func (o *cipherOpts) register(fs *flag.FlagSet) {
	fs.StringVar(&o.keyword, "k", "", "Keyword used to reorder the alphabet (default: none)")
	fs.StringVar(&o.replacement, "r", cipher.DefaultReplacement, "Replacement pair: omitted letter then substitute")
	fs.StringVar(&o.direction, "d", "n", "Starting direction (n, ne, e, se, s, sw, w, nw)")
	fs.IntVar(&o.step, "s", 2, "Rotation step size (1-4)")
	fs.BoolVar(&o.widdershins, "w", false, "Rotate widdershins instead of clockwise")
	fs.StringVar(&o.keyName, "key", "", "Use a stored key by name (from 'nesw key save')")
}

// config resolves the flags into a validated configuration, loading a stored
// key when --key is given. Explicit cipher flags conflict with --key.
func (o *cipherOpts) config(fs *flag.FlagSet, errOut io.Writer) (cipher.Config, int) {
	if o.keyName == "" {
		cfg, err := cipher.ParseConfig(o.keyword, o.replacement, o.direction, o.step, o.widdershins)
		if err != nil {
			fmt.Fprintf(errOut, "invalid configuration: %v\n", err)
			return cipher.Config{}, 2
		}
		return cfg, 0
	}

	conflict := ""
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "k", "r", "d", "s", "w":
			conflict = f.Name
		}
	})
	if conflict != "" {
		fmt.Fprintf(errOut, "conflicting flags: --key cannot be combined with -%s\n", conflict)
		return cipher.Config{}, 2
	}

	ring, err := keyring.Open("")
	if err != nil {
		fmt.Fprintf(errOut, "keyring: %v\n", err)
		return cipher.Config{}, 1
	}
	cfg, err := ring.Load(o.keyName)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return cipher.Config{}, 1
	}
	return cfg, 0
}

func cmdTranscode(name string, invert bool, args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)

	var o cipherOpts
	o.register(fs)
	var message string
	var inputPath string
	var outputPath string
	fs.StringVar(&message, "m", "", "Message to transform (cannot be combined with -f)")
	fs.StringVar(&inputPath, "f", "-", "Read the message from a file, '-' for standard input")
	fs.StringVar(&outputPath, "o", "", "Write the result to a file instead of standard output")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(errOut, "unexpected argument: %s\n", fs.Arg(0))
		return 2
	}
	if message != "" && inputPath != "-" {
		fmt.Fprintln(errOut, "conflicting flags: -m cannot be combined with -f")
		return 2
	}

	cfg, code := o.config(fs, errOut)
	if code != 0 {
		return code
	}
	if invert {
		cfg = cfg.Inverted()
	}

	if message == "" {
		var data []byte
		var err error
		if inputPath == "-" {
			data, err = io.ReadAll(in)
		} else {
			data, err = os.ReadFile(inputPath)
		}
		if err != nil {
			fmt.Fprintf(errOut, "read message: %v\n", err)
			return 1
		}
		message = string(data)
	}

	result, err := cipher.Encipher(message, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", name, err)
		return 1
	}
	result = strings.TrimSpace(result)

	if outputPath == "" {
		_, _ = fmt.Fprintln(out, result)
		return 0
	}
	file, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			fmt.Fprintf(errOut, "can't open %q: file already exists\n", outputPath)
			return 1
		}
		fmt.Fprintf(errOut, "open %q: %v\n", outputPath, err)
		return 1
	}
	defer file.Close()
	if _, err := io.WriteString(file, result+"\n"); err != nil {
		fmt.Fprintf(errOut, "write %q: %v\n", outputPath, err)
		return 1
	}
	if err := file.Close(); err != nil {
		fmt.Fprintf(errOut, "close %q: %v\n", outputPath, err)
		return 1
	}
	return 0
}

func cmdSquare(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("square", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var o cipherOpts
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, code := o.config(fs, errOut)
	if code != 0 {
		return code
	}
	sq, err := cipher.BuildSquare(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "build square: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, sq)
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "save":
		return cmdKeySave(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "show":
		return cmdKeyShow(args[1:], out, errOut)
	case "rm":
		return cmdKeyRemove(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "nesw key: manage named cipher keys")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nesw key save --name <name> [-k <keyword>] [-r <pair>] [-d <direction>] [-s <step>] [-w] [--force]")
	fmt.Fprintln(w, "  nesw key list")
	fmt.Fprintln(w, "  nesw key show --name <name>")
	fmt.Fprintln(w, "  nesw key rm --name <name>")
}

func cmdKeySave(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key save", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var o cipherOpts
	var name string
	var force bool
	fs.StringVar(&o.keyword, "k", "", "Keyword used to reorder the alphabet")
	fs.StringVar(&o.replacement, "r", cipher.DefaultReplacement, "Replacement pair")
	fs.StringVar(&o.direction, "d", "n", "Starting direction")
	fs.IntVar(&o.step, "s", 2, "Rotation step size (1-4)")
	fs.BoolVar(&o.widdershins, "w", false, "Rotate widdershins")
	fs.StringVar(&name, "name", "", "Key name (file under ~/.nesw/keys)")
	fs.BoolVar(&force, "force", false, "Overwrite an existing key file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keyring.CheckName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	cfg, err := cipher.ParseConfig(o.keyword, o.replacement, o.direction, o.step, o.widdershins)
	if err != nil {
		fmt.Fprintf(errOut, "invalid configuration: %v\n", err)
		return 2
	}
	ring, err := keyring.Open("")
	if err != nil {
		fmt.Fprintf(errOut, "keyring: %v\n", err)
		return 1
	}
	path, err := ring.Save(name, cfg, force)
	if err != nil {
		fmt.Fprintf(errOut, "save key: %v\n", err)
		return 1
	}
	fp, err := keyfile.Fingerprint(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "fingerprint: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Saved key: %s\n", fp)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ring, err := keyring.Open("")
	if err != nil {
		fmt.Fprintf(errOut, "keyring: %v\n", err)
		return 1
	}
	names, err := ring.List()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return 0
}

func cmdKeyShow(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key show", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var name string
	fs.StringVar(&name, "name", "", "Key name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	ring, err := keyring.Open("")
	if err != nil {
		fmt.Fprintf(errOut, "keyring: %v\n", err)
		return 1
	}
	cfg, err := ring.Load(name)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return 1
	}
	b, err := keyfile.Render(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "render key: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	_, _ = io.WriteString(out, "\n")
	return 0
}

func cmdKeyRemove(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key rm", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var name string
	fs.StringVar(&name, "name", "", "Key name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	ring, err := keyring.Open("")
	if err != nil {
		fmt.Fprintf(errOut, "keyring: %v\n", err)
		return 1
	}
	if err := ring.Remove(name); err != nil {
		fmt.Fprintf(errOut, "remove key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Removed key: %s\n", name)
	return 0
}

func cmdKeyID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key-id", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var o cipherOpts
	o.register(fs)
	var check bool
	fs.BoolVar(&check, "check", false, "Print the five-letter check code instead of the fingerprint")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, code := o.config(fs, errOut)
	if code != 0 {
		return code
	}
	if check {
		cc, err := keyfile.CheckCode(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "check code: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, cc)
		return 0
	}
	fp, err := keyfile.Fingerprint(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "fingerprint: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, fp)
	return 0
}
