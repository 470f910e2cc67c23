package completions

import (
	"fmt"
	"strings"
)

// GenerateBash renders a bash completion function. Names containing ':' are
// trimmed the way bash-completion's __ltrim_colon_completions does.
func GenerateBash(bin string, commands []CommandInfo) string {
	fn := "_" + funcName(bin) + "_completions"

	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s bash completion script\n", bin)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local line=\"${COMP_LINE:0:COMP_POINT}\"\n")
	b.WriteString("    local -a words\n")
	b.WriteString("    read -ra words <<< \"$line\"\n")
	b.WriteString("    local n=${#words[@]} cur=\"\"\n")
	b.WriteString("    if [[ \"$line\" == *\" \" ]]; then\n")
	b.WriteString("        n=$((n + 1))\n")
	b.WriteString("    else\n")
	b.WriteString("        cur=\"${words[n-1]}\"\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    if (( n <= 2 )); then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %s -- \"$cur\") )\n", singleQuote(strings.Join(names, " ")))
	b.WriteString("    else\n")
	b.WriteString("        case \"${words[1]}\" in\n")
	for _, c := range commands {
		flags := flagWords(c.Flags)
		if len(flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "            %s) COMPREPLY=( $(compgen -W %s -- \"$cur\") ) ;;\n", singleQuote(c.Name), singleQuote(strings.Join(flags, " ")))
	}
	b.WriteString("            *) COMPREPLY=( $(compgen -f -- \"$cur\") ) ;;\n")
	b.WriteString("        esac\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    if [[ \"$cur\" == *:* && \"$COMP_WORDBREAKS\" == *:* ]]; then\n")
	b.WriteString("        local prefix=\"${cur%\"${cur##*:}\"}\"\n")
	b.WriteString("        local i\n")
	b.WriteString("        for i in \"${!COMPREPLY[@]}\"; do\n")
	b.WriteString("            COMPREPLY[i]=\"${COMPREPLY[i]#\"$prefix\"}\"\n")
	b.WriteString("        done\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "complete -F %s %s\n", fn, bin)
	return b.String()
}

func flagWords(flags []FlagInfo) []string {
	var words []string
	for _, f := range flags {
		words = append(words, f.Names...)
	}
	return words
}

// GenerateZsh renders a compdef function using _describe and _arguments.
func GenerateZsh(bin string, commands []CommandInfo) string {
	fn := "_" + funcName(bin)

	var b strings.Builder
	fmt.Fprintf(&b, "#compdef %s\n", bin)
	fmt.Fprintf(&b, "# %s zsh completion script\n\n", bin)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		entry := strings.ReplaceAll(c.Name, ":", `\:`) + ":" + c.Summary
		fmt.Fprintf(&b, "        %s\n", singleQuote(entry))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	fmt.Fprintf(&b, "        _describe -t commands %s commands\n", singleQuote(bin+" command"))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range commands {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", singleQuote(c.Name))
		b.WriteString("            _arguments")
		for _, f := range c.Flags {
			for _, name := range f.Names {
				spec := name
				if f.HasValue && strings.HasPrefix(name, "--") {
					spec += "="
				}
				spec += "[" + zshDescription(f.Description) + "]"
				if f.HasValue {
					spec += ":value:"
				}
				fmt.Fprintf(&b, " \\\n                %s", singleQuote(spec))
			}
		}
		b.WriteString(" \\\n                '*:file:_files'\n")
		b.WriteString("            ;;\n")
	}
	b.WriteString("        *)\n")
	b.WriteString("            _files\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "compdef %s %s\n", fn, bin)
	return b.String()
}

func zshDescription(s string) string {
	return strings.NewReplacer("[", "(", "]", ")", ":", " ").Replace(s)
}

// GenerateFish renders complete(1) declarations.
func GenerateFish(bin string, commands []CommandInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s fish completion script\n", bin)
	fmt.Fprintf(&b, "complete -c %s -f\n", bin)
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_use_subcommand' -a %s -d %s\n", bin, singleQuote(c.Name), singleQuote(c.Summary))
	}
	for _, c := range commands {
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c %s -n %s", bin, singleQuote("__fish_seen_subcommand_from "+c.Name))
			if long := f.Long(); long != "" {
				line += " -l " + strings.TrimPrefix(long, "--")
			}
			if short := f.Short(); short != "" {
				line += " -s " + strings.TrimPrefix(short, "-")
			}
			if f.HasValue {
				line += " -r"
			}
			if f.Description != "" {
				line += " -d " + singleQuote(f.Description)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
