package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional values, e.g. shell names
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config":   {FileGlob: "*.yaml,*.yml"},
	"output":   {FileGlob: "*.png"},
	"image":    {FileGlob: "*.png"},
	"html":     {FileGlob: "*.html"},
	"template": {FileGlob: "*.html"},
	"log-file": {FileGlob: "*.log"},

	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:  "generate",
			Desc:  "Render the repository social preview image",
			Flags: extractFlagsFromFlagSet(buildGenerateFlagSet(&generateFlags{})),
		},
		{
			Name:  "publish",
			Desc:  "Upload the image through the repository settings page",
			Flags: extractFlagsFromFlagSet(buildPublishFlagSet(&publishFlags{})),
		},
		{
			Name:  "doctor",
			Desc:  "Check the browser and environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}},
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// commandNames returns the registry's command names.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(ogimage completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(ogimage completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    ogimage completion fish > ~/.config/fish/completions/ogimage.fish")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for ogimage\n\n")
	b.WriteString("_ogimage_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	fmt.Fprintf(&b, "    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"${prev}\" in\n")
	for _, fd := range uniqueValueFlags(cmds) {
		fmt.Fprintf(&b, "        %s)\n", bashFlagPattern(fd))
		switch fd.Type {
		case flagEnum:
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(fd.Values, " "))
		case flagDir:
			b.WriteString("            COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
		default:
			b.WriteString("            COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
		}
		b.WriteString("            return\n            ;;\n")
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"${cmd}\" in\n")
	for _, c := range cmds {
		words := c.Args
		for _, fd := range c.Flags {
			words = append(words, "--"+fd.Long)
			if fd.Short != "" {
				words = append(words, "-"+fd.Short)
			}
		}
		if c.Name == "help" {
			words = commandNames(cmds)
		}
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(words, " "))
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n}\n\n")
	b.WriteString("complete -F _ogimage_completions ogimage\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// uniqueValueFlags returns flags taking a value, deduplicated across commands.
func uniqueValueFlags(cmds []commandDef) []flagDef {
	seen := make(map[string]bool)
	var out []flagDef
	for _, c := range cmds {
		for _, fd := range c.Flags {
			if fd.Type == flagBool || fd.Type == flagString || seen[fd.Long] {
				continue
			}
			seen[fd.Long] = true
			out = append(out, fd)
		}
	}
	return out
}

func bashFlagPattern(fd flagDef) string {
	if fd.Short != "" {
		return "--" + fd.Long + "|-" + fd.Short
	}
	return "--" + fd.Long
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef ogimage\n\n")
	b.WriteString("_ogimage() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, fd := range c.Flags {
			fmt.Fprintf(&b, "                %s \\\n", zshFlagSpec(fd))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "                '1:shell:(%s)'\n", strings.Join(c.Args, " "))
		case c.Name == "help":
			fmt.Fprintf(&b, "                '1:command:(%s)'\n", strings.Join(commandNames(cmds), " "))
		default:
			b.WriteString("                '*: :'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _ogimage ogimage\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshFlagSpec(fd flagDef) string {
	var action string
	switch fd.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", fd.Long, strings.Join(fd.Values, " "))
	case flagFile:
		globs := strings.Split(fd.FileGlob, ",")
		action = fmt.Sprintf(":file:_files -g '(%s)'", strings.Join(globs, "|"))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + fd.Long + ":"
	}

	desc := zshEscape(fd.Desc)
	if fd.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", fd.Short, fd.Long, fd.Short, fd.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", fd.Long, desc, action)
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	names := strings.Join(commandNames(cmds), " ")
	var b strings.Builder

	b.WriteString("# fish completion for ogimage\n\n")
	b.WriteString("function __fish_ogimage_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_ogimage_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c ogimage -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c ogimage -n __fish_ogimage_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := "'__fish_ogimage_using_command " + c.Name + "'"
		for _, fd := range c.Flags {
			line := "complete -c ogimage -n " + cond + " -l " + fd.Long
			if fd.Short != "" {
				line += " -s " + fd.Short
			}
			switch fd.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(fd.Values, " ") + "'"
			case flagFile, flagDir:
				line += " -r -F"
			case flagString:
				line += " -r"
			}
			line += " -d '" + fishEscape(fd.Desc) + "'"
			b.WriteString(line + "\n")
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c ogimage -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.Name == "help" {
			fmt.Fprintf(&b, "complete -c ogimage -n %s -a '%s'\n", cond, names)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
