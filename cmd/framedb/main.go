package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/phamtanloc/framedb/internal"
	"github.com/phamtanloc/framedb/internal/buffer"
	"github.com/phamtanloc/framedb/internal/storage"
)

type shell struct {
	mgr *buffer.Manager
}

func parseFileID(s string) (storage.FileID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad file id %q", s)
	}
	return storage.FileID(n), nil
}

func parsePageID(fileArg, pageArg string) (storage.PageID, error) {
	fileID, err := parseFileID(fileArg)
	if err != nil {
		return storage.InvalidPageID, err
	}
	n, err := strconv.ParseUint(pageArg, 10, 32)
	if err != nil {
		return storage.InvalidPageID, fmt.Errorf("bad page number %q", pageArg)
	}
	return storage.PageID{FileID: fileID, PageNum: uint32(n)}, nil
}

func (s *shell) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "create":
		if len(args) != 1 {
			return fmt.Errorf("usage: create <file>")
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}
		return s.mgr.CreateFile(fileID)

	case "rmfile":
		if len(args) != 1 {
			return fmt.Errorf("usage: rmfile <file>")
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}
		return s.mgr.RemoveFile(fileID)

	case "alloc":
		if len(args) != 1 {
			return fmt.Errorf("usage: alloc <file>")
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}
		_, pageID, err := s.mgr.AllocatePage(fileID)
		if err != nil {
			return err
		}
		fmt.Printf("allocated %v (pinned)\n", pageID)
		return nil

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <file> <page>")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		if _, err := s.mgr.GetPage(pageID); err != nil {
			return err
		}
		fmt.Printf("pinned %v\n", pageID)
		return nil

	case "release":
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("usage: release <file> <page> [dirty]")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		dirty := len(args) == 3 && args[2] == "dirty"
		return s.mgr.ReleasePage(pageID, dirty)

	case "fill":
		if len(args) != 3 {
			return fmt.Errorf("usage: fill <file> <page> <byte>")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		b, err := strconv.ParseUint(args[2], 0, 8)
		if err != nil {
			return fmt.Errorf("bad byte %q", args[2])
		}
		page, err := s.mgr.GetPage(pageID)
		if err != nil {
			return err
		}
		for i := range page {
			page[i] = byte(b)
		}
		if err := s.mgr.SetDirty(pageID); err != nil {
			return err
		}
		return s.mgr.ReleasePage(pageID, true)

	case "dirty":
		if len(args) != 2 {
			return fmt.Errorf("usage: dirty <file> <page>")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		return s.mgr.SetDirty(pageID)

	case "flush":
		if len(args) != 2 {
			return fmt.Errorf("usage: flush <file> <page>")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		return s.mgr.FlushPage(pageID)

	case "flushall":
		return s.mgr.FlushAll()

	case "dealloc":
		if len(args) != 2 {
			return fmt.Errorf("usage: dealloc <file> <page>")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		return s.mgr.DeallocatePage(pageID)

	case "state":
		s.mgr.PrintBufferState(os.Stdout)
		return nil

	case "frames":
		s.mgr.PrintValidFrames(os.Stdout)
		return nil

	case "allframes":
		s.mgr.PrintAllFrames(os.Stdout)
		return nil

	case "frame":
		if len(args) != 1 {
			return fmt.Errorf("usage: frame <id>")
		}
		frameID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad frame id %q", args[0])
		}
		s.mgr.PrintFrame(os.Stdout, frameID)
		return nil

	case "page":
		if len(args) != 2 {
			return fmt.Errorf("usage: page <file> <page>")
		}
		pageID, err := parsePageID(args[0], args[1])
		if err != nil {
			return err
		}
		s.mgr.PrintPage(os.Stdout, pageID)
		return nil

	case "stats":
		s.mgr.PrintReplacementStats(os.Stdout)
		return nil

	case "help":
		printHelp()
		return nil

	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func printHelp() {
	fmt.Println(`commands:
  create <file>                 create a database file
  rmfile <file>                 drop the file's pages and remove it
  alloc <file>                  allocate and pin a fresh page
  get <file> <page>             pin a page, reading it in on a miss
  release <file> <page> [dirty] drop one pin
  fill <file> <page> <byte>     pin, fill the page with a byte, release dirty
  dirty <file> <page>           set the dirty bit
  flush <file> <page>           write the page back if dirty
  flushall                      write back every dirty page
  dealloc <file> <page>         deallocate an unpinned page
  state | frames | allframes    inspect the pool
  frame <id> | page <f> <p>     inspect one slot / one resident page
  stats                         replacement policy counters
  quit | exit | \q              flush and exit`)
}

func main() {
	var (
		configPath = flag.String("config", "", "path to yaml config")
		dataDir    = flag.String("data-dir", "./data", "working directory for database files")
		poolSize   = flag.Int("pool-size", 0, "number of buffer frames (0 = config/default)")
		policyName = flag.String("policy", "", "replacement policy: clock or random")
		oneShot    = flag.String("c", "", "execute one command and exit")
	)
	flag.Parse()

	workdir := *dataDir
	size := *poolSize
	policyStr := *policyName

	if *configPath != "" {
		cfg, err := internal.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		workdir = cfg.Storage.Workdir
		if size == 0 {
			size = cfg.Buffer.PoolSize
		}
		if policyStr == "" {
			policyStr = cfg.Buffer.Policy
		}
	}
	if policyStr == "" {
		policyStr = "clock"
	}

	policy, err := buffer.ParsePolicy(policyStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	disk, err := storage.NewDiskManager(workdir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "disk: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = disk.Close() }()

	mgr, err := buffer.NewManager(disk, size, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "buffer: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	sh := &shell{mgr: mgr}

	// one-shot mode
	if strings.TrimSpace(*oneShot) != "" {
		if err := sh.exec(*oneShot); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "framedb> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("framedb: %d frames, %s policy, data in %s\n", mgr.PoolSize(), policy, workdir)
	fmt.Println("type help for commands")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println("^C")
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == `\q` {
			return
		}

		_ = rl.SaveHistory(line)
		if err := sh.exec(line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}
