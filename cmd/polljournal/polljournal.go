package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wallnutkraken/gophotopoll/pollbrain/dbwrap"
	"github.com/wallnutkraken/gophotopoll/pollbrain/serial"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

// polljournal is the CLi for the photo bot's journal
// It reads the same database the bot writes its decisions, commands and Bot API errors to

var cliReader = bufio.NewReader(os.Stdin)

// Method represents a selectable journal operation
type Method struct {
	Name        string
	Function    func(journal dbwrap.Wrapper)
	Description string
}

// MethodList is an int-indexed list of callable methods
type MethodList struct {
	Index   int
	Methods map[int]Method
}

// Next gets the next method. Returns the next method, the method's index and whether this method exists.
func (m *MethodList) Next() (Method, int, bool) {
	m.Index++
	method, exists := m.Methods[m.Index]
	return method, m.Index, exists
}

var methods = MethodList{
	Methods: map[int]Method{
		1: {
			Name:        "ListErrors",
			Function:    listErrors,
			Description: "List every failed Bot API call",
		},
		2: {
			Name:        "PurgeErrors",
			Function:    purgeErrors,
			Description: "Delete every recorded Bot API failure",
		},
		3: {
			Name:        "ListCommands",
			Function:    listCommands,
			Description: "List every command the bot acted on",
		},
		4: {
			Name:        "DumpDecisions",
			Function:    dumpDecisions,
			Description: "Save every poll decision to a gzipped text file",
		},
	},
}

var (
	dialect = flag.String("dialect", "", "The journal database dialect (sqlite3 or mysql), overrides "+settings.EnvJournalDialect)
	dsn     = flag.String("dsn", "", "The journal database DSN, overrides "+settings.EnvJournalDSN)
	method  = flag.Int("method", 0, "The method to call without asking, 0 shows the menu")
	out     = flag.String("out", "", "Where DumpDecisions writes the dump, asked for when empty")
)

func main() {
	flag.Parse()

	env, err := settings.LoadEnvironment()
	if err != nil {
		errorExit(err)
	}
	if *dialect == "" {
		*dialect = env.JournalDialect
	}
	if *dsn == "" {
		*dsn = env.JournalDSN
	}
	if *dialect == "" {
		errorExit(fmt.Errorf("no journal configured, set %s or -dialect", settings.EnvJournalDialect))
	}

	journal, err := dbwrap.Open(*dialect, *dsn)
	if err != nil {
		errorExit(err)
	}
	defer journal.Close()

	choiceIndex := *method
	if choiceIndex == 0 {
		fmt.Println("Journal opened. Pick a method to call.")
		for {
			m, index, exists := methods.Next()
			if !exists {
				break
			}
			fmt.Printf("[%d] %s: %s\n", index, m.Name, m.Description)
		}
		choice, err := readLine()
		if err != nil {
			errorExit(err)
		}
		choiceIndex, err = strconv.Atoi(choice)
		if err != nil {
			errorExit(err)
		}
	}
	m, exists := methods.Methods[choiceIndex]
	if !exists {
		fmt.Println("Invalid selection")
		os.Exit(1)
	}
	m.Function(journal)
}

func errorExit(err error) {
	fmt.Printf("ERROR: %s\n", err.Error())
	os.Exit(1)
}

func readLine() (string, error) {
	line, _, err := cliReader.ReadLine()
	return strings.TrimSpace(string(line)), err
}

func listErrors(journal dbwrap.Wrapper) {
	sendErrors, err := journal.GetSendErrors()
	if err != nil {
		errorExit(err)
	}
	for _, sendErr := range sendErrors {
		fmt.Printf("[%v] %s: %s\n", time.Unix(sendErr.Unix, 0), sendErr.Method, sendErr.Error)
	}
}

func purgeErrors(journal dbwrap.Wrapper) {
	if err := journal.PurgeSendErrors(); err != nil {
		errorExit(err)
	}
	fmt.Println("Done.")
}

func listCommands(journal dbwrap.Wrapper) {
	cmds, err := journal.GetCommands()
	if err != nil {
		errorExit(err)
	}
	for _, cmd := range cmds {
		fmt.Printf("[%v] update %d: %s %s\n", time.Unix(cmd.Unix, 0), cmd.UpdateID, cmd.Name, cmd.Args)
	}
}

func dumpDecisions(journal dbwrap.Wrapper) {
	path := *out
	if path == "" {
		fmt.Print("Filepath (including filename) on where to save the dump: ")
		line, err := readLine()
		if err != nil {
			errorExit(err)
		}
		path = line
	}

	decisions, err := journal.GetDecisions()
	if err != nil {
		errorExit(err)
	}
	dump, err := serial.Marshal(decisions)
	if err != nil {
		errorExit(err)
	}
	if err := os.WriteFile(path, dump, 0o644); err != nil {
		errorExit(err)
	}
	fmt.Printf("Saved %d decisions.\n", len(decisions))
}
