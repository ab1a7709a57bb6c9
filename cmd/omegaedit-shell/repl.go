package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	omegaedit "github.com/omegaedit/core"
)

// Shell is the interactive command loop over one Session.
type Shell struct {
	session *omegaedit.Session
	path    string
	logger  *slog.Logger

	liner     *liner.State
	viewports map[int]*omegaedit.Viewport
	nextVPID  int
	searches  map[int]*omegaedit.SearchContext
	nextSID   int
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".omegaedit_shell_history")
}

// Run starts the REPL loop until the user exits or input is exhausted.
func (sh *Shell) Run() error {
	sh.viewports = make(map[int]*omegaedit.Viewport)
	sh.searches = make(map[int]*omegaedit.SearchContext)

	sh.liner = liner.NewLiner()
	defer sh.liner.Close()
	sh.liner.SetCtrlCAborts(true)
	sh.liner.SetCompleter(sh.completer)

	if f, err := os.Open(historyFile()); err == nil {
		sh.liner.ReadHistory(f)
		f.Close()
	}

	name := sh.path
	if name == "" {
		name = "(new document)"
	}
	fmt.Printf("omegaedit-shell — %s (%d bytes)\n", name, sh.session.Size())
	fmt.Println("Type 'help' for commands.")

	for {
		line, err := sh.liner.Prompt("oe> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sh.liner.AppendHistory(line)

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		if cmd == "exit" || cmd == "quit" || cmd == "q" {
			fmt.Println("Bye!")
			break
		}
		sh.dispatch(cmd, args)
	}

	sh.saveHistory()
	return nil
}

func (sh *Shell) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			sh.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (sh *Shell) completer(line string) []string {
	commands := []string{
		"insert", "overwrite", "delete", "read", "decode", "size",
		"undo", "redo", "begin", "end", "save",
		"search", "searchnext", "searchclose",
		"viewport", "transform", "profile", "bom", "checkpoints",
		"help", "exit", "quit", "q",
	}
	var out []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}
	return out
}

func (sh *Shell) dispatch(cmd string, args []string) {
	switch cmd {
	case "help", "?":
		sh.printHelp()
	case "insert":
		sh.cmdInsert(args)
	case "overwrite":
		sh.cmdOverwrite(args)
	case "delete":
		sh.cmdDelete(args)
	case "read":
		sh.cmdRead(args)
	case "decode":
		sh.cmdDecode(args)
	case "size":
		fmt.Println(sh.session.Size())
	case "undo":
		sh.cmdUndoRedo(sh.session.Undo, "undo")
	case "redo":
		sh.cmdUndoRedo(sh.session.Redo, "redo")
	case "begin":
		if err := sh.session.BeginTransaction(); err != nil {
			sh.reportErr(err)
			return
		}
		fmt.Println("transaction started")
	case "end":
		if err := sh.session.EndTransaction(); err != nil {
			sh.reportErr(err)
			return
		}
		fmt.Println("transaction committed")
	case "save":
		sh.cmdSave(args)
	case "search":
		sh.cmdSearch(args)
	case "searchnext":
		sh.cmdSearchNext(args)
	case "searchclose":
		sh.cmdSearchClose(args)
	case "viewport":
		sh.cmdViewport(args)
	case "transform":
		sh.cmdTransform(args)
	case "profile":
		sh.cmdProfile(args)
	case "bom":
		sh.cmdBOM()
	case "checkpoints":
		fmt.Println(sh.session.NumCheckpoints())
	case "destroylastcheckpoint":
		if err := sh.session.DestroyLastCheckpoint(); err != nil {
			sh.reportErr(err)
		}
	default:
		fmt.Printf("unknown command: %s (type 'help')\n", cmd)
	}
}

func (sh *Shell) printHelp() {
	fmt.Println(`Commands:
  insert <offset> <text>             Insert text at offset
  overwrite <offset> <text>          Overwrite bytes starting at offset
  delete <offset> <length>           Delete length bytes at offset
  read <offset> <length>             Print bytes as text and hex
  decode <enc> <offset> <length>     Print a range decoded from utf8|utf16le|utf16be
  size                                Print the logical file size
  undo / redo                         Undo or redo the last change
  begin / end                        Group following edits into one transaction
  save <path> [overwrite|force]       Save the logical file (default: none)
  search <pattern> [ci] [offset] [end]  Start a forward search, print first match
  searchnext <id>                     Print the next match for search <id>
  searchclose <id>                    Destroy search context <id>
  viewport create <offset> <length> [floating=true|false]
                                       Create a viewport (floating by default), print its id
  viewport read <id>                  Print a viewport's current window
  viewport destroy <id>                Destroy a viewport
  transform upper <offset> <length>    Uppercase a range in place
  transform lower <offset> <length>    Lowercase a range in place
  transform rotate <offset> <length> [bits]  Circularly rotate each byte's bits left
  profile <offset> <length>            Print a byte-frequency histogram
  bom                                   Detect a byte-order mark at the start of the file
  checkpoints                           Print the number of open checkpoints
  destroylastcheckpoint                 Destroy the most recently created checkpoint
  help                                   Show this help
  exit / quit / q                       Exit`)
}

func (sh *Shell) reportErr(err error) {
	var oe *omegaedit.Error
	if ok := asOmegaError(err, &oe); ok {
		fmt.Printf("error: %s (%s)\n", oe.Msg, kindName(oe.Kind))
		return
	}
	fmt.Printf("error: %v\n", err)
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func (sh *Shell) cmdInsert(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: insert <offset> <text>")
		return
	}
	off, err := parseInt64(args[0])
	if err != nil {
		fmt.Printf("bad offset: %v\n", err)
		return
	}
	text := strings.Join(args[1:], " ")
	serial, err := sh.session.InsertBytes(off, []byte(text))
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("ok, serial=%d, size=%d\n", serial, sh.session.Size())
}

func (sh *Shell) cmdOverwrite(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: overwrite <offset> <text>")
		return
	}
	off, err := parseInt64(args[0])
	if err != nil {
		fmt.Printf("bad offset: %v\n", err)
		return
	}
	text := strings.Join(args[1:], " ")
	serial, err := sh.session.OverwriteBytes(off, []byte(text))
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("ok, serial=%d, size=%d\n", serial, sh.session.Size())
}

func (sh *Shell) cmdDelete(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: delete <offset> <length>")
		return
	}
	off, err1 := parseInt64(args[0])
	length, err2 := parseInt64(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("offset and length must be integers")
		return
	}
	serial, err := sh.session.Delete(off, length)
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("ok, serial=%d, size=%d\n", serial, sh.session.Size())
}

func (sh *Shell) cmdRead(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: read <offset> <length>")
		return
	}
	off, err1 := parseInt64(args[0])
	length, err2 := parseInt64(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("offset and length must be integers")
		return
	}
	data, err := sh.session.Read(off, length)
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("text: %q\n", string(data))
	fmt.Printf("hex:  %s\n", hex.EncodeToString(data))
}

func (sh *Shell) cmdUndoRedo(fn func() (int64, error), name string) {
	serial, err := fn()
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("%s ok, serial=%d, size=%d\n", name, serial, sh.session.Size())
}

func (sh *Shell) cmdSave(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: save <path> [overwrite|force]")
		return
	}
	flags := omegaedit.SaveNone
	if len(args) >= 2 {
		switch strings.ToLower(args[1]) {
		case "overwrite":
			flags = omegaedit.SaveOverwrite
		case "force":
			flags = omegaedit.SaveForceOverwrite
		}
	}
	out, err := sh.session.Save(args[0], flags)
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("saved to %s\n", out)
}

func (sh *Shell) cmdSearch(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: search <pattern> [ci] [start] [end]")
		return
	}
	pattern := args[0]
	ci := false
	var start, end int64
	rest := args[1:]
	if len(rest) > 0 && strings.EqualFold(rest[0], "ci") {
		ci = true
		rest = rest[1:]
	}
	if len(rest) >= 1 {
		start, _ = parseInt64(rest[0])
	}
	if len(rest) >= 2 {
		end, _ = parseInt64(rest[1])
	}

	ctx, err := sh.session.CreateSearch([]byte(pattern), ci, start, end, omegaedit.SearchForward)
	if err != nil {
		sh.reportErr(err)
		return
	}
	id := sh.nextSID
	sh.nextSID++
	sh.searches[id] = ctx

	off, found, err := ctx.NextMatch(true)
	if err != nil {
		sh.reportErr(err)
		return
	}
	if !found {
		fmt.Printf("search id=%d: no match\n", id)
		return
	}
	fmt.Printf("search id=%d: match at %d\n", id, off)
}

func (sh *Shell) cmdSearchNext(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: searchnext <id>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("id must be an integer")
		return
	}
	ctx, ok := sh.searches[id]
	if !ok {
		fmt.Printf("no such search id: %d\n", id)
		return
	}
	off, found, err := ctx.NextMatch(true)
	if err != nil {
		sh.reportErr(err)
		return
	}
	if !found {
		fmt.Println("no more matches")
		return
	}
	fmt.Printf("match at %d\n", off)
}

func (sh *Shell) cmdSearchClose(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: searchclose <id>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("id must be an integer")
		return
	}
	ctx, ok := sh.searches[id]
	if !ok {
		fmt.Printf("no such search id: %d\n", id)
		return
	}
	ctx.Destroy()
	delete(sh.searches, id)
	fmt.Println("closed")
}

func (sh *Shell) cmdViewport(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: viewport create|read|destroy ...")
		return
	}
	switch strings.ToLower(args[0]) {
	case "create":
		if len(args) < 3 {
			fmt.Println("usage: viewport create <offset> <length> [floating=true|false]")
			return
		}
		off, err1 := parseInt64(args[1])
		length, err2 := parseInt64(args[2])
		if err1 != nil || err2 != nil {
			fmt.Println("offset and length must be integers")
			return
		}
		floating := true
		if len(args) >= 4 {
			floating = strings.ToLower(args[3]) != "false"
		}
		vp, err := sh.session.CreateViewport(off, length, floating, omegaedit.EventNone, nil)
		if err != nil {
			sh.reportErr(err)
			return
		}
		id := sh.nextVPID
		sh.nextVPID++
		sh.viewports[id] = vp
		fmt.Printf("viewport id=%d\n", id)
	case "read":
		if len(args) < 2 {
			fmt.Println("usage: viewport read <id>")
			return
		}
		vp, ok := sh.lookupViewport(args[1])
		if !ok {
			return
		}
		data, err := vp.Read()
		if err != nil {
			sh.reportErr(err)
			return
		}
		fmt.Printf("[%d,+%d) floating=%t: %q\n", vp.Offset(), vp.Length(), vp.Floating(), string(data))
	case "destroy":
		if len(args) < 2 {
			fmt.Println("usage: viewport destroy <id>")
			return
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Println("id must be an integer")
			return
		}
		vp, ok := sh.viewports[id]
		if !ok {
			fmt.Printf("no such viewport id: %d\n", id)
			return
		}
		if err := sh.session.DestroyViewport(vp); err != nil {
			sh.reportErr(err)
			return
		}
		delete(sh.viewports, id)
		fmt.Println("destroyed")
	default:
		fmt.Println("usage: viewport create|read|destroy ...")
	}
}

func (sh *Shell) lookupViewport(idStr string) (*omegaedit.Viewport, bool) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		fmt.Println("id must be an integer")
		return nil, false
	}
	vp, ok := sh.viewports[id]
	if !ok {
		fmt.Printf("no such viewport id: %d\n", id)
		return nil, false
	}
	return vp, true
}

func (sh *Shell) cmdTransform(args []string) {
	if len(args) < 3 {
		fmt.Println("usage: transform upper|lower|rotate <offset> <length> [bits]")
		return
	}
	kind := strings.ToLower(args[0])
	off, err1 := parseInt64(args[1])
	length, err2 := parseInt64(args[2])
	if err1 != nil || err2 != nil {
		fmt.Println("offset and length must be integers")
		return
	}

	var fn omegaedit.ByteTransform
	switch kind {
	case "upper":
		fn = toUpper
	case "lower":
		fn = toLower
	case "rotate":
		bits := uint(1)
		if len(args) >= 4 {
			n, err := strconv.Atoi(args[3])
			if err == nil && n >= 0 {
				bits = uint(n)
			}
		}
		fn = omegaedit.RotateBitsLeft(bits)
	default:
		fmt.Println("unknown transform kind (want upper, lower, or rotate)")
		return
	}

	serial, err := sh.session.ApplyTransform(off, length, fn)
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Printf("ok, serial=%d\n", serial)
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func (sh *Shell) cmdProfile(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: profile <offset> <length>")
		return
	}
	off, err1 := parseInt64(args[0])
	length, err2 := parseInt64(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("offset and length must be integers")
		return
	}
	end := off + length
	freq, err := sh.session.Profile(off, end)
	if err != nil {
		sh.reportErr(err)
		return
	}
	for b, count := range freq {
		if count > 0 {
			fmt.Printf("  0x%02x: %d\n", b, count)
		}
	}
}

func (sh *Shell) cmdBOM() {
	bom, err := sh.session.DetectBOM()
	if err != nil {
		sh.reportErr(err)
		return
	}
	fmt.Println(bomName(bom))
}

func bomName(b omegaedit.BOM) string {
	switch b {
	case omegaedit.UTF8:
		return "UTF-8"
	case omegaedit.UTF16LE:
		return "UTF-16LE"
	case omegaedit.UTF16BE:
		return "UTF-16BE"
	case omegaedit.UTF32LE:
		return "UTF-32LE"
	case omegaedit.UTF32BE:
		return "UTF-32BE"
	default:
		return "none"
	}
}

func kindName(k omegaedit.ErrorKind) string {
	return k.String()
}

func asOmegaError(err error, target **omegaedit.Error) bool {
	oe, ok := err.(*omegaedit.Error)
	if ok {
		*target = oe
	}
	return ok
}
