package commands

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/klabast/wb-services/planning-bilans/internal/app"
	"github.com/klabast/wb-services/planning-bilans/internal/config"
)

var (
	errEmptyUsername     = errors.New("username cannot be empty")
	errEmptyPassword     = errors.New("password cannot be empty")
	errPasswordsMismatch = errors.New("passwords do not match")
)

// HashPassword handles the hash-password subcommand
func HashPassword(args []string) {
	if err := runHashPassword(args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runHashPassword prompts for credentials and writes the auth file named by the config.
// Passwords are masked only when in is a terminal.
func runHashPassword(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	overwrite := fs.Bool("overwrite", false, "Overwrite existing auth file without asking")
	insecureUnmask := fs.Bool("insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: planning-bilans hash-password [OPTIONS]\n\n")
		fmt.Fprintf(out, "Creates the auth file with a hashed password (Argon2id).\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEnvironment Variables:\n")
		fmt.Fprintf(out, "  AUTH_FILE           Path to auth file (default: auth.secret next to the binary)\n")
		fmt.Fprintf(out, "  PLANNING_AUTH_FILE  Same, through the config layer\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	readLine := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		return readTrimmedLine(reader)
	}

	username, err := readLine("Enter username: ")
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}
	if username == "" {
		return errEmptyUsername
	}

	readSecret := readLine
	if *insecureUnmask {
		fmt.Fprintf(out, "⚠️  WARNING: Password will be visible on screen!\n")
	} else if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		readSecret = func(prompt string) (string, error) {
			return readPasswordWithMask(f, out, prompt)
		}
	}

	password, err := readSecret("Enter password:   ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	passwordConfirm, err := readSecret("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}

	if password == "" {
		return errEmptyPassword
	}
	if password != passwordConfirm {
		return errPasswordsMismatch
	}

	return app.CreateAuthFile(cfg.Auth.File, username, password, *overwrite, reader, out)
}

func readTrimmedLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPasswordWithMask reads password input and displays asterisks
func readPasswordWithMask(f *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	fd := int(f.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return string(password), err
	}
	defer term.Restore(fd, oldState)

	var password []byte
	reader := bufio.NewReader(f)

	for {
		char, _, err := reader.ReadRune()
		if err != nil {
			fmt.Fprint(out, "\r\n")
			return string(password), nil
		}

		switch char {
		case '\n', '\r':
			fmt.Fprint(out, "\r\n")
			return string(password), nil
		case 127, 8: // Backspace or Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				fmt.Fprint(out, "\b \b")
			}
		case 3: // Ctrl+C
			fmt.Fprint(out, "\r\n")
			return "", app.ErrAborted
		default:
			if char >= 32 && char <= 126 {
				password = append(password, byte(char))
				fmt.Fprint(out, "*")
			}
		}
	}
}
