// Command-line interface to lattice region trees.
// Counts the cells left on after a reboot procedure, and keeps imported
// procedures and their counts in a local store.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/reboot"
	"github.com/janelia-flyem/lattice/server"
	"github.com/janelia-flyem/lattice/storage"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	// Path to TOML configuration file.
	configFile = flag.String("config", "", "")

	// Collapse uniform subtrees after each step.
	runCompact = flag.Bool("compact", false, "")

	// Profile CPU usage using standard gotest system.
	cpuprofile = flag.String("cpuprofile", "", "")
)

// Version is the semantic version of this tool.
const Version = "0.1.0"

const helpMessage = `
lattice counts the cells left on after toggling boxes in a 3d integer lattice

Usage: lattice [options] <command>

      -config     =string   Path to TOML configuration file.
      -compact    (flag)    Collapse uniform subtrees after each step.
      -cpuprofile =string   Write CPU profile to this file.
      -verbose    (flag)    Run in verbose mode.
  -h, -help       (flag)    Show help message

Commands:

	about
	help
	count   <procedure file> [region=<name>]
	import  <procedure file> [name=<name>]
	replay  <procedure id> [region=<name>]
	export  <procedure id> [format=text|json]
	list
	delete  <procedure id>

A procedure file holds one step per line, e.g., "on x=10..12,y=10..12,z=10..12",
or a JSON document {"steps": [{"state": "on", "min": [10,10,10], "max": [12,12,12]}]}.
Files may be gzip, zstd or snappy compressed.  Use "-" to read from stdin.

Counts are printed one per line in region order: by default the initialization
region [-50,50]^3 and then the region covering every step.  A configuration
file given by -config or config=<path> can add regions.
`

var usage = func() {
	fmt.Print(helpMessage)
}

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() >= 1 && strings.ToLower(flag.Args()[0]) == "help" {
		*showHelp = true
	}
	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	if *runVerbose {
		lattice.Verbose = true
		lattice.SetLogMode(lattice.DebugMode)
	} else {
		lattice.SetLogMode(lattice.WarningMode)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	// Capture ctrl+c and other interrupts, cancelling any procedure being run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := lattice.Command(flag.Args())
	if err := DoCommand(ctx, command, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
		}
		os.Exit(1)
	}
}

// DoCommand serves as a switchboard for commands, writing their output to w.
func DoCommand(ctx context.Context, cmd lattice.Command, w io.Writer) error {
	if len(cmd) == 0 {
		return fmt.Errorf("blank command")
	}
	if cmd.Name() == "about" {
		fmt.Fprintf(w, "lattice %s\nStorage engines: %s\n", Version, storage.EnginesAvailable())
		return nil
	}

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	config.Logging.SetLogger()
	defer lattice.Shutdown()
	if *runCompact {
		config.Tree.Compact = true
	}

	service, err := server.Open(config)
	if err != nil {
		return err
	}
	defer service.Shutdown()

	switch cmd.Name() {
	case "count":
		return DoCount(ctx, service, cmd, w)
	case "import":
		return DoImport(service, cmd, w)
	case "replay":
		return DoReplay(ctx, service, cmd, w)
	case "export":
		return DoExport(service, cmd, w)
	case "list":
		return DoList(service, w)
	case "delete":
		return DoDelete(service, cmd)
	default:
		return fmt.Errorf("unknown command %q, try 'lattice help'", cmd.Name())
	}
}

// loadConfig returns the configuration named by a config=<path> setting or the
// -config flag, or the defaults if neither is given.
func loadConfig(cmd lattice.Command) (*server.Config, error) {
	filename := *configFile
	if setting, found := cmd.Parameter(lattice.KeyConfigFile); found {
		filename = setting
	}
	if filename == "" {
		return server.DefaultConfig(), nil
	}
	return server.LoadConfig(filename)
}

// printResults writes the count of the region named by a region=<name> setting,
// or else the counts of every region.
func printResults(w io.Writer, cmd lattice.Command, results []reboot.Result) error {
	if region, found := cmd.Parameter(lattice.KeyRegion); found {
		for _, result := range results {
			if result.Region == region {
				fmt.Fprintln(w, result.Count)
				return nil
			}
		}
		return fmt.Errorf("no region %q configured", region)
	}
	fmt.Fprint(w, server.FormatResults(results, *runVerbose))
	return nil
}

// DoCount performs the "count" command, printing the on-count of each region.
func DoCount(ctx context.Context, service *server.Service, cmd lattice.Command, w io.Writer) error {
	var path string
	cmd.CommandArgs(&path)
	if path == "" {
		return fmt.Errorf("count command must be followed by the path to a procedure file")
	}
	results, err := service.Count(ctx, path)
	if err != nil {
		return err
	}
	return printResults(w, cmd, results)
}

// DoImport performs the "import" command, storing a procedure and printing its ID.
func DoImport(service *server.Service, cmd lattice.Command, w io.Writer) error {
	var path string
	cmd.CommandArgs(&path)
	if path == "" {
		return fmt.Errorf("import command must be followed by the path to a procedure file")
	}
	name, _ := cmd.Parameter(lattice.KeyName)
	id, err := service.Import(path, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, id)
	return nil
}

// DoReplay performs the "replay" command, printing the on-counts of a stored procedure.
func DoReplay(ctx context.Context, service *server.Service, cmd lattice.Command, w io.Writer) error {
	id := cmd.Argument(1)
	if id == "" {
		return fmt.Errorf("replay command must be followed by a procedure id")
	}
	results, err := service.Replay(ctx, id)
	if err != nil {
		return err
	}
	return printResults(w, cmd, results)
}

// DoExport performs the "export" command, writing a stored procedure as text or JSON.
func DoExport(service *server.Service, cmd lattice.Command, w io.Writer) error {
	id := cmd.Argument(1)
	if id == "" {
		return fmt.Errorf("export command must be followed by a procedure id")
	}
	format, _, err := cmd.Settings().GetString(lattice.KeyFormat)
	if err != nil {
		return err
	}
	return service.Export(id, w, format)
}

// DoList performs the "list" command.
func DoList(service *server.Service, w io.Writer) error {
	infos, err := service.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\n", info.ID, info.Name)
	}
	return nil
}

// DoDelete performs the "delete" command.
func DoDelete(service *server.Service, cmd lattice.Command) error {
	id := cmd.Argument(1)
	if id == "" {
		return fmt.Errorf("delete command must be followed by a procedure id")
	}
	return service.Delete(id)
}
