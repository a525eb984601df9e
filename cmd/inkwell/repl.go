package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/errors"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// Test seams for the filesystem and terminal detection.
var (
	readFile   = os.ReadFile
	writeFile  = os.WriteFile
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

const helpText = `Commands:
  list [query]                  show posts, optionally filtered
  search <query>                ranked full-text search
  new                           create and open a blank draft
  open <id>                     open a post
  goto <fragment>               open the post named by #post-<id>
  edit title|tags <text>        stage a field
  edit content [text]           stage content; without text, read lines until "."
  publish on|off                stage the published flag
  save                          save the form
  delete [yes]                  delete the open post
  clear                         blank the form
  preview                       print the rendered preview
  view [file]                   write the open post as a standalone page
  export [file]                 write every post to a JSON file
  import <file>                 add the posts of an export file
  help                          show this help
  exit | quit                   leave`

// session is the editor surface the REPL drives.
type session interface {
	Dispatch(ctx context.Context, cmd editor.Command) (*editor.Result, error)
	View() editor.View
	SetForm(form editor.Form)
	SetContent(content string) string
	SetPublished(published bool) string
	SetQuery(query string)
}

// maxLineSize bounds a single input line, so long pasted content still scans.
const maxLineSize = 16 << 20

// newInputScanner returns a line scanner over in that accepts lines up to maxLineSize.
func newInputScanner(in io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

type repl struct {
	session     session
	scanner     *bufio.Scanner
	interactive bool
}

// runREPL reads commands until EOF or exit. Command failures are printed and
// the loop continues.
func runREPL(ctx context.Context, s session, scanner *bufio.Scanner) {
	r := &repl{session: s, scanner: scanner, interactive: isTerminal()}

	for {
		printlnFn(r.prompt())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				printlnFn("Error: reading input:", err)
			}
			return
		}
		cmd, rest := splitCommand(scanner.Text())
		if cmd == "" {
			continue
		}
		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := r.exec(ctx, cmd, rest); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func splitCommand(line string) (string, string) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}

func (r *repl) prompt() string {
	v := r.session.View()
	if v.CurrentID == "" {
		return "inkwell> "
	}
	return fmt.Sprintf("inkwell [%s %s]> ", v.CurrentID, v.PublishedLabel)
}

func (r *repl) exec(ctx context.Context, cmd, rest string) error {
	switch cmd {
	case "help":
		printlnFn(helpText)

	case "list", "l":
		r.session.SetQuery(rest)
		r.printRows(r.session.View())

	case "search":
		res, err := r.session.Dispatch(ctx, editor.Search{Query: rest})
		if err != nil {
			return err
		}
		r.printSearch(res)

	case "new":
		res, err := r.session.Dispatch(ctx, editor.NewPost{})
		if err != nil {
			return err
		}
		printlnFn("Opened new draft", res.View.CurrentID)

	case "open":
		return r.open(ctx, editor.OpenPost{ID: rest}, rest)

	case "goto":
		return r.open(ctx, editor.Navigate{Fragment: rest}, rest)

	case "edit":
		return r.edit(rest)

	case "publish":
		return r.publish(rest)

	case "save":
		res, err := r.session.Dispatch(ctx, editor.SaveCurrent{Form: r.session.View().Form})
		if err != nil {
			return err
		}
		printlnFn("Saved", res.View.CurrentID)

	case "delete":
		return r.delete(ctx, rest)

	case "clear":
		if _, err := r.session.Dispatch(ctx, editor.ClearEditor{}); err != nil {
			return err
		}
		printlnFn("Form cleared.")

	case "preview":
		printlnFn(r.session.View().Preview)

	case "view":
		return r.view(ctx, rest)

	case "export":
		return r.export(ctx, rest)

	case "import":
		return r.importFile(ctx, rest)

	default:
		printlnFn("Unknown command:", cmd)
	}
	return nil
}

func (r *repl) open(ctx context.Context, cmd editor.Command, target string) error {
	before := r.session.View().CurrentID
	res, err := r.session.Dispatch(ctx, cmd)
	if err != nil {
		return err
	}
	id := res.View.CurrentID
	if id == "" || (id == before && !strings.HasSuffix(target, id)) {
		printlnFn("No such post:", target)
		return nil
	}
	printForm(res.View)
	return nil
}

func (r *repl) edit(rest string) error {
	field, text, _ := strings.Cut(rest, " ")
	form := r.session.View().Form

	switch strings.ToLower(field) {
	case "title":
		form.Title = text
		r.session.SetForm(form)
	case "tags":
		form.Tags = text
		r.session.SetForm(form)
	case "content":
		if text == "" {
			text = r.readContent()
		}
		r.session.SetContent(text)
	default:
		return fmt.Errorf("usage: edit title|tags|content <text>")
	}
	return nil
}

// readContent collects lines until a line holding a single ".".
func (r *repl) readContent() string {
	printlnFn(`Enter content, finish with a line containing only "."`)
	var lines []string
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (r *repl) publish(rest string) error {
	switch strings.ToLower(rest) {
	case "on":
		printlnFn(r.session.SetPublished(true))
	case "off":
		printlnFn(r.session.SetPublished(false))
	default:
		return fmt.Errorf("usage: publish on|off")
	}
	return nil
}

func (r *repl) delete(ctx context.Context, rest string) error {
	if r.session.View().CurrentID == "" {
		printlnFn(editor.NoticeNothingOpen)
		return nil
	}

	confirmed := strings.EqualFold(rest, "yes")
	if !confirmed {
		if !r.interactive {
			printlnFn(`Type "delete yes" to confirm.`)
			return nil
		}
		confirmed = r.confirm(editor.NoticeConfirm)
	}

	_, err := r.session.Dispatch(ctx, editor.DeleteCurrent{Confirmed: confirmed})
	switch {
	case errors.Is(err, editor.ErrNotConfirmed):
		printlnFn("Cancelled.")
		return nil
	case err != nil:
		return err
	}
	printlnFn("Deleted.")
	return nil
}

func (r *repl) confirm(question string) bool {
	printlnFn(question + " [y/N]")
	if !r.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(r.scanner.Text()))
	return answer == "y" || answer == "yes"
}

func (r *repl) view(ctx context.Context, path string) error {
	res, err := r.session.Dispatch(ctx, editor.ViewCurrent{})
	if err != nil {
		return err
	}
	if res.Document == nil {
		printlnFn(res.Notice)
		return nil
	}
	if path == "" {
		path = res.Document.Filename
	}
	if err := writeFile(path, res.Document.HTML, 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	printlnFn("Wrote", path)
	return nil
}

func (r *repl) export(ctx context.Context, path string) error {
	res, err := r.session.Dispatch(ctx, editor.Export{})
	if err != nil {
		return err
	}
	if path == "" {
		path = res.File.Name
	}
	if err := writeFile(path, res.File.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	printlnFn("Exported to", path)
	return nil
}

func (r *repl) importFile(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("usage: import <file>")
	}
	data, err := readFile(filepath.Clean(path))
	if err != nil {
		printlnFn(editor.NoticeImportFailed)
		return err
	}
	res, err := r.session.Dispatch(ctx, editor.Import{Data: data})
	if err != nil {
		return err
	}
	printlnFn(res.Notice)
	return nil
}

func (r *repl) printRows(v editor.View) {
	if len(v.Rows) == 0 {
		printlnFn("No posts.")
		return
	}
	for _, row := range v.Rows {
		marker := " "
		if row.ID == v.CurrentID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s  [%s]  %s", marker, row.ID, row.Title, row.Status, row.Subtitle))
	}
}

func (r *repl) printSearch(res *editor.Result) {
	if res.Search == nil {
		r.printRows(res.View)
		return
	}
	if len(res.Search.Hits) == 0 {
		printlnFn("No matches.")
		return
	}
	for _, hit := range res.Search.Hits {
		printlnFn(fmt.Sprintf("  %s  %s  (%.2f)", hit.ID, hit.Title, hit.Score))
	}
}

func printForm(v editor.View) {
	printlnFn("Opened", v.CurrentID)
	printlnFn("Title:  ", v.Form.Title)
	printlnFn("Tags:   ", v.Form.Tags)
	printlnFn("Status: ", v.PublishedLabel)
}
