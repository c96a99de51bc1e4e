package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

// tokenEnv holds the session token used by the entity commands; it is prompted when unset.
const tokenEnv = "HAPPYFOX_TOKEN"

var (
	readTokenFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  token -role admin|mentor|student [-username NAME] [-ttl DURATION] - issue a session token")
	fmt.Fprintln(cli.out, "  list -type TYPE - print the entities of a type")
	fmt.Fprintln(cli.out, "  create -type TYPE key=value... - create an entity")
	fmt.Fprintln(cli.out, "  delete -type TYPE -id ID - delete an entity")
	fmt.Fprintf(cli.out, "The session token is read from $%s or prompted.\n", tokenEnv)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenRole := tokenCmd.String("role", "", "The dashboard role: admin, mentor or student.")
	tokenUname := tokenCmd.String("username", "admin", "The username carried by the token.")
	tokenTTL := tokenCmd.Duration("ttl", 0, "How long the token is valid. Defaults to the session TTL.")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listType := listCmd.String("type", "", "The entity type, eg. courses.")

	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	createType := createCmd.String("type", "", "The entity type, eg. courses. Attributes follow as key=value pairs.")

	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	deleteType := deleteCmd.String("type", "", "The entity type, eg. courses.")
	deleteID := deleteCmd.String("id", "", "The id of the entity to delete.")

	switch args[1] {
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenRole == "" {
			tokenCmd.Usage()
			return errHelp
		}
		ttl := *tokenTTL
		if ttl <= 0 {
			ttl = sessionTTL(cli.conf)
		}
		return cli.issueToken(*tokenRole, *tokenUname, ttl)
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *listType == "" {
			listCmd.Usage()
			return errHelp
		}
		token, err := cli.readToken()
		if err != nil {
			return err
		}
		return cli.list(token, entity.Type(*listType))
	case "create":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createType == "" || createCmd.NArg() == 0 {
			createCmd.Usage()
			return errHelp
		}
		payload, err := parsePairs(createCmd.Args())
		if err != nil {
			return err
		}
		token, err := cli.readToken()
		if err != nil {
			return err
		}
		return cli.create(token, entity.Type(*createType), payload)
	case "delete":
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteType == "" || *deleteID == "" {
			deleteCmd.Usage()
			return errHelp
		}
		token, err := cli.readToken()
		if err != nil {
			return err
		}
		return cli.delete(token, entity.Type(*deleteType), *deleteID)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readToken() (string, error) {
	if token := core.CleanString(os.Getenv(tokenEnv)); token != "" {
		return token, nil
	}
	fmt.Fprint(cli.out, "Enter token:")
	token, err := readTokenFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(token) == 0 {
		cli.printUsage()
		return "", errHelp
	}
	return core.CleanString(string(token)), nil
}

// sessionTTL bounds the tokens issued without an explicit -ttl.
func sessionTTL(conf *core.Config) time.Duration {
	if conf.SessionTTL > 0 {
		return conf.SessionTTL
	}
	return time.Hour
}
