// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/ferryctl/internal/meta"
)

const bashCompletionScript = `# bash completion for ferryctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_ferryctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "cq load seasons completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local output="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t"
    local source="--source --url -u --path-format --dir --bucket --prefix --region --profile --endpoint --seasons-file --id-key"

    case "$cmd" in
        cq)
            local opts="$output $source --examples --parallel -p"
            ;;
        load)
            local opts="$output $source --consumers -n --progress --parallel -p"
            ;;
        seasons)
            local opts="$output $source"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$output $source"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml raw" -- "$cur") )
            return 0
            ;;
        --source)
            COMPREPLY=( $(compgen -W "http dir s3" -- "$cur") )
            return 0
            ;;
        --dir|--seasons-file)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* || "$cmd" == "seasons" ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Season codes are positional, offer latest as the one known word.
    COMPREPLY=( $(compgen -W "latest" -- "$cur") )
    return 0
}

complete -F _ferryctl ferryctl
`

const zshCompletionScript = `#compdef ferryctl

_ferryctl() {
  local -a cmds
  cmds=(
    'cq:course query'
    'load:load seasons through several consumers and summarize'
    'seasons:list known seasons'
    'completion:generate shell completion script'
  )

  local -a output
  output=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
    '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw)'
    '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
    '(-t --titles)'{-t,--titles}'[show titles]'
  )

  local -a source
  source=(
    '--source[catalog source]:source:(http dir s3)'
    '(-u --url)'{-u,--url}'[catalog base url]:url'
    '--path-format[per season object path]:format'
    '--dir[catalog directory]:dir:_directories'
    '--bucket[s3 bucket]:bucket'
    '--prefix[s3 key prefix]:prefix'
    '--region[aws region]:region'
    '--profile[aws profile]:profile'
    '--endpoint[s3 endpoint]:endpoint'
    '--seasons-file[season list]:file:_files'
    '--id-key[record id field]:key'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'ferryctl commands' cmds
    return
  fi

  case $words[2] in
    cq)
      _arguments -C $output $source \
        '--examples[show usage examples]' \
        '(-p --parallel)'{-p,--parallel}'[maximum concurrent fetches]:n' \
        '*:season:(latest)'
      ;;
    load)
      _arguments -C $output $source \
        '(-n --consumers)'{-n,--consumers}'[number of consumers]:n' \
        '--progress[show a spinner per season]' \
        '(-p --parallel)'{-p,--parallel}'[maximum concurrent fetches]:n' \
        '*:season:(latest)'
      ;;
    seasons)
      _arguments -C $output $source
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _ferryctl ferryctl
`

// CompletionCommandAction prints the completion script for the shell named
// by the first argument, or by $SHELL when none is given.
func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: ferryctl completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "ferryctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
