// worklogctl is the control CLI for the worklog recording core.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"worklogd/internal/config"
	"worklogd/pkg/worklog"
)

var (
	dirFlag    = flag.String("dir", ".", "working directory to record")
	configPath = flag.String("config", "", "path to config file")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	switch cmd {
	case "status":
		cmdStatus()
	case "recover":
		cmdRecover()
	case "handover":
		cmdHandover()
	case "why":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: worklogctl why <filename>")
			os.Exit(1)
		}
		cmdWhy(flag.Arg(1))
	case "record-file":
		if flag.NArg() < 3 {
			fmt.Fprintln(os.Stderr, "Usage: worklogctl record-file <operation> <path>")
			os.Exit(1)
		}
		cmdRecordFile(flag.Arg(1), flag.Arg(2))
	case "record-cmd":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: worklogctl record-cmd <command> [output]")
			os.Exit(1)
		}
		output := ""
		if flag.NArg() >= 3 {
			output = flag.Arg(2)
		}
		cmdRecordCmd(flag.Arg(1), output)
	case "snapshot":
		cmdSnapshot()
	case "watch":
		cmdWatch()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `worklogctl - Control utility for the worklog recording core

Usage: worklogctl [options] <command> [args]

Commands:
  status                       Show project info and recorded intents
  recover                      Recover the last session and write recovery_report.md
  handover                     Print the handover summary for the last session
  why <filename>               Explain why a file exists
  record-file <op> <path>      Record a file operation (create|edit|delete|append)
  record-cmd <command> [out]   Record a command execution
  snapshot                     Record a VCS snapshot (git status + diff)
  watch                        Auto-record file writes until interrupted
  help                         Show this help message

Options:
  -dir <path>      Working directory to record (default: .)
  -config <path>   Path to config file (default: ~/.claude_intent_system/config.toml)`)
}

func openRecorder() *worklog.Recorder {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return worklog.Open(*dirFlag, cfg)
}

func cmdStatus() {
	rec := openRecorder()
	defer rec.Close()

	proj := rec.Project()
	fmt.Println("=== worklog Status ===")
	fmt.Println()
	fmt.Printf("Project:  %s (%s)\n", proj.Name, proj.ProjectID)
	fmt.Printf("Kind:     %s\n", proj.Kind)
	fmt.Printf("Path:     %s\n", proj.Path)
	if proj.VCS.Present {
		fmt.Printf("Branch:   %s\n", proj.VCS.Branch)
		fmt.Printf("Remote:   %s\n", proj.VCS.Remote)
	} else {
		fmt.Println("VCS:      none")
	}
	fmt.Println()
	fmt.Print(rec.Summary())
}

func cmdRecover() {
	rec := openRecorder()
	defer rec.Close()

	report := rec.Recover()
	fmt.Printf("Recovered session %s (%d actions)\n",
		report.Session.SessionID, len(report.Session.Actions))

	path := filepath.Join(*dirFlag, "recovery_report.md")
	if err := os.WriteFile(path, []byte(report.Report), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report: %s\n", path)
}

func cmdHandover() {
	rec := openRecorder()
	defer rec.Close()

	report := rec.Recover()
	fmt.Print(rec.GenerateHandover(report.Session))
}

func cmdWhy(name string) {
	rec := openRecorder()
	defer rec.Close()

	fmt.Println(rec.WhyFile(name))
}

func cmdRecordFile(operation, path string) {
	rec := openRecorder()
	defer rec.Close()

	content := ""
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
	}
	rec.RecordFileOp(operation, path, content)
	fmt.Printf("Recorded %s %s\n", operation, path)
}

func cmdRecordCmd(command, output string) {
	rec := openRecorder()
	defer rec.Close()

	rec.RecordCommand(command, output)
	fmt.Printf("Recorded command: %s\n", command)
}

func cmdSnapshot() {
	rec := openRecorder()
	defer rec.Close()

	rec.RecordVCSSnapshot()
	fmt.Println("Recorded VCS snapshot")
}

func cmdWatch() {
	rec := openRecorder()
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", *dirFlag)
	if err := rec.Watch(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		os.Exit(1)
	}
}
