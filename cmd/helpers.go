package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/qualens/qualens/infrastructure/state"
	pkgError "github.com/qualens/qualens/pkg/error"
)

// cliContext is cancelled by Ctrl-C so in-flight requests abort cleanly
// instead of leaving the lifecycle manager with dangling entries.
func cliContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.Fatalln("Failed to encode output:", err)
	}
	fmt.Println(string(encoded))
}

// exitOnError prints benign cancellations quietly and everything else as a
// fatal error.
func exitOnError(err error) {
	if err == nil {
		return
	}
	if pkgError.IsCancelled(err) {
		fmt.Fprintln(os.Stderr, "cancelled")
		os.Exit(130)
	}
	logrus.Fatalln(err)
}

// resolveConnection picks the explicit flag value or falls back to the
// workspace's active connection.
func resolveConnection(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	id, err := stateStore.ActiveConnection()
	if err != nil {
		logrus.Fatalln("Failed to read active connection:", err)
	}
	if id == "" {
		logrus.Fatalln("No connection selected; pass --connection or run `qualens connections use <id>`")
	}
	return id
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// trackHistory appends one request-history row for a CLI verb run.
func trackHistory(method, path string, start time.Time, err error) {
	outcome := "success"
	status := 200
	if err != nil {
		outcome = "error"
		status = 0
		var ge pkgError.GenericError
		if ok := asGenericError(err, &ge); ok {
			outcome = strings.ToLower(strings.TrimSuffix(ge.ErrCode(), "_ERROR"))
			status = ge.StatusCode()
		}
	}
	entry := state.HistoryEntry{
		Method:  method,
		Path:    path,
		Status:  status,
		Outcome: outcome,
		Elapsed: time.Since(start),
	}
	if dbErr := stateStore.AppendHistory(entry); dbErr != nil {
		logrus.Debugf("[CLI] Could not record history: %v", dbErr)
	}
}

func asGenericError(err error, target *pkgError.GenericError) bool {
	for err != nil {
		if ge, ok := err.(pkgError.GenericError); ok {
			*target = ge
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// promptLine reads one line from stdin, for interactive credentials.
func promptLine(label string) string {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		logrus.Fatalln("Failed to read input:", err)
	}
	return strings.TrimSpace(line)
}
