package main

import (
	"errors"
	"fmt"
	"sort"
)

type cmdHelp struct {
	Args string
	Desc string
	OLD  string /* one line description */
}

var helpTable = map[string]*cmdHelp{
	"clear": {
		Args: "none",
		Desc: `

	Clear the screen using an ANSI escape code. This may not work
	in all terminals.
`,
		OLD: "attempt to clear the display",
	},
	"email": {
		Args: "optional: an email or username",
		Desc: `

	Show the default email, or set it if an argument is given. The
	default email is stored with every saved website unless save is
	given another one.
`,
		OLD: "show or set the default email",
	},
	"generate": {
		Args: "none",
		Desc: `

	Generate a new password and copy it to the clipboard. The next
	save will store it.
`,
		OLD: "generate a password",
	},
	"help": {
		Args: "optional: command names",
		Desc: `

	Show help messages. If arguments are provided, show the
	full help message for the first argument.
`,
		OLD: "print usage information",
	},
	"list": {
		Args: "optional: substrings to search for",
		Desc: `

	List the websites in the store. If arguments are provided,
	they will be used to match names: a website will be included
	in the list if any of the arguments appear as substrings in
	its name.
`,
		OLD: "list the websites in the store",
	},
	"quit": {
		Args: "none",
		Desc: `

	Exit the program. This may also be done with C-d. Every save
	is written immediately, so nothing is lost.
`,
		OLD: "exit the program",
	},
	"remove": {
		Args: "required: one or more websites",
		Desc: `

	Remove the listed websites from the store.
`,
		OLD: "remove websites",
	},
	"save": {
		Args: "required: a website; optional: an email",
		Desc: `

	Store the last generated password under the website. If no
	password has been generated, you will be prompted for one. If
	the website already exists, you will be asked whether to
	replace its details.
`,
		OLD: "save a website's credentials",
	},
	"search": {
		Args: "required: one or more websites",
		Desc: `

	Show the email and password stored for each website. Website
	names are not case sensitive.
`,
		OLD: "show a website's credentials",
	},
}

func commandList() []string {
	list := make([]string, 0, len(dispatch))

	for cmd := range dispatch {
		if _, ok := helpTable[cmd]; ok {
			list = append(list, cmd)
		} else {
			fmt.Printf("[!] Warning: command %s isn't documented. This is a bug!\n", cmd)
		}
	}
	sort.Strings(list)
	return list
}

func printCommands() {
	fmt.Println("Commands:")
	for _, cmd := range commandList() {
		fmt.Printf("\t%s: %s\n", cmd, helpTable[cmd].OLD)
	}

	fmt.Println("Use help command (e.g. help list) to read more detailed help messages.")
}

func help(sh *shell, args []string) error {
	if len(args) == 0 {
		printCommands()
		return nil
	}

	cmd, ok := helpTable[args[0]]
	if !ok {
		return errors.New("command not found")
	}

	fmt.Printf("%s: %s\n\tArguments: %s\n%s\n\n",
		args[0], cmd.OLD, cmd.Args, cmd.Desc)

	return nil
}
