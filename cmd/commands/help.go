package commands

import "fmt"

const usage = `mediavault - media persistence and dedup coordinator

usage:
  mediavault run <config.yml>                   start the coordinator
  mediavault import <config.yml> <author> <dir> import a folder of media for author
  mediavault version                            print the version
  mediavault help                               show this message
`

func HandleHelp(_ []string) {
	fmt.Print(usage) //nolint
}
