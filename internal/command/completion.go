// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/meta"
)

const bashCompletionScript = `# bash completion for awsutil
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_awsutil()
{
    local cur prev group sub
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "ec2 s3 completion --help --version" -- "$cur") )
        return 0
    fi

    group=${COMP_WORDS[1]}
    local common="--color -c --output -o --sort -s --titles -t --profile -p --region -r --endpoint"

    if [[ ${COMP_CWORD} -eq 2 ]]; then
        case "$group" in
        ec2) COMPREPLY=( $(compgen -W "start status ip describe" -- "$cur") ) ;;
        s3) COMPREPLY=( $(compgen -W "get put" -- "$cur") ) ;;
        completion) COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") ) ;;
        esac
        return 0
    fi

    sub=${COMP_WORDS[2]}
    local opts="$common"
    case "$group/$sub" in
    ec2/start) opts="$common --max-wait -w --no-progress" ;;
    ec2/describe) opts="$common --attrs -a" ;;
    s3/get) opts="$common --cache" ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # s3 <file> positional
    if [[ "$group" == "s3" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
    fi
    return 0
}

complete -F _awsutil awsutil
`

const zshCompletionScript = `#compdef awsutil

_awsutil() {
  local -a groups
  groups=(
    'ec2:query and start EC2 instances'
    's3:download and upload S3 objects'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '(-p --profile)'{-p,--profile}'[shared config profile]:profile'
  '(-r --region)'{-r,--region}'[AWS region]:region'
  '--endpoint[base endpoint URL]:url'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'awsutil commands' groups
    return
  fi

  case $words[2] in
    ec2)
      if (( CURRENT == 3 )); then
        _values 'ec2 command' start status ip describe
        return
      fi
      case $words[3] in
        start)
          _arguments -C $common \
            '(-w --max-wait)'{-w,--max-wait}'[max wait]:duration' \
            '--no-progress[hide spinner]' \
            '*:instance id'
          ;;
        describe)
          _arguments -C $common \
            '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs' \
            '*:instance id'
          ;;
        *)
          _arguments -C $common '*:instance id'
          ;;
      esac
      ;;
    s3)
      if (( CURRENT == 3 )); then
        _values 's3 command' get put
        return
      fi
      case $words[3] in
        get)
          _arguments -C $common '--cache[use local cache]' '1:bucket' '2:key' '3:file:_files'
          ;;
        *)
          _arguments -C $common '1:bucket' '2:key' '3:file:_files'
          ;;
      esac
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _awsutil awsutil
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	out := GetMeta(cmd).Out()

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(out, bashCompletionScript)
	case "zsh":
		fmt.Fprint(out, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(out, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(out, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: awsutil completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "awsutil completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
