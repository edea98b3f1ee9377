// Command carbon is the CLI host for the Carbon interpreter: it loads
// a project's carbon.toml (if any), lexes and parses the entry file,
// runs name resolution and type checking, and — only if both passed
// cleanly — interprets the program, propagating its exit code (§6/§7).
package main

import (
	"flag"
	"fmt"
	"os"

	"carbonc/config"
	"carbonc/interp"
	"carbonc/snapshot"
	"carbonc/syntax"
	"carbonc/trace"
)

func main() {
	verbose := flag.Bool("v", false, "verbose progress output")
	dump := flag.String("dump", "", "write a CBOR snapshot of main's result to this path")
	traceFlag := flag.Bool("trace", false, "record a step trace to the project's trace database")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: carbon [options] [entry.carbon]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a Carbon program. With no entry argument, loads carbon.toml\n")
		fmt.Fprintf(os.Stderr, "from the current directory (or a parent of it) to find one.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := newLogger(*verbose)
	os.Exit(run(log, flag.Arg(0), *dump, *traceFlag))
}

func run(log Logger, entryArg string, dumpPath string, tracing bool) int {
	dir, err := os.Getwd()
	if err != nil {
		log.Error("carbon: %v", err)
		return 1
	}

	cfg, err := config.FindAndLoad(dir)
	if err != nil {
		log.Error("carbon: loading config: %v", err)
		return 1
	}

	entryPath := cfg.EntryPath()
	if entryArg != "" {
		entryPath = entryArg
	}
	log.Verbose("entry file: %s", entryPath)

	src, err := os.ReadFile(entryPath)
	if err != nil {
		log.Error("carbon: %v", err)
		return 1
	}

	file, parseErrs := syntax.ParseFile(entryPath, string(src))
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			log.Error("%s", e)
		}
		return 1
	}
	log.Verbose("parsed %d top-level declarations", len(file.Declarations))

	program := interp.BuildExecutableProgram(file)
	if !program.OK() {
		for _, d := range program.Diagnostics() {
			log.Error("%s", d.String())
		}
		return 1
	}
	log.Verbose("resolved and type-checked cleanly")

	interpreter := interp.NewInterpreter(program)

	if tracing || cfg.Trace.Enabled {
		rec, err := trace.Open(cfg.Trace.DBPath)
		if err != nil {
			log.Error("carbon: opening trace database: %v", err)
			return 1
		}
		defer rec.Close()
		interpreter.Trace = rec
		log.Verbose("tracing session %s to %s", rec.SessionID(), cfg.Trace.DBPath)
	}

	exitCode, err := interpreter.Run()
	if err != nil {
		log.Error("carbon: %v", err)
		return 1
	}
	log.Verbose("main returned %d", exitCode)

	if dumpPath != "" {
		mainDest := interpreter.Memory.Allocate(interp.IntType{}, false)
		interpreter.Memory.Write(mainDest, interp.IntValue{Value: exitCode})
		data, err := snapshot.Dump(interpreter.Memory, map[string]interp.Address{"main": mainDest})
		if err != nil {
			log.Error("carbon: building snapshot: %v", err)
			return 1
		}
		if err := os.WriteFile(dumpPath, data, 0o644); err != nil {
			log.Error("carbon: writing snapshot: %v", err)
			return 1
		}
		log.Verbose("wrote snapshot to %s", dumpPath)
	}

	return int(exitCode)
}
