package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/service"
)

// ListCommand lists the snippets of the bound host.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List local snippets",
		Action:  listSnippets,
	}
}

// NewCommand creates a blank snippet.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:   "new",
		Usage:  "Create a blank snippet for the host",
		Action: newSnippet,
	}
}

// ShowCommand prints one snippet.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a snippet",
		ArgsUsage: "<id>",
		Action:    showSnippet,
	}
}

// RenameCommand renames and saves a snippet.
func RenameCommand() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a snippet",
		ArgsUsage: "<id> <name>",
		Action:    renameSnippet,
	}
}

// DuplicateCommand copies a snippet under a "(Copy)" name.
func DuplicateCommand() *cli.Command {
	return &cli.Command{
		Name:      "duplicate",
		Aliases:   []string{"dup"},
		Usage:     "Duplicate a snippet",
		ArgsUsage: "<id>",
		Action:    duplicateSnippet,
	}
}

// DeleteCommand removes one snippet, asking first unless --yes is given.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a snippet",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{yesFlag()},
		Action:    deleteSnippet,
	}
}

// DeleteAllCommand clears every snippet of the host.
func DeleteAllCommand() *cli.Command {
	return &cli.Command{
		Name:   "delete-all",
		Usage:  "Delete all local snippets",
		Flags:  []cli.Flag{yesFlag()},
		Action: deleteAllSnippets,
	}
}

// PlaylistCommand prints the remote gallery of starter snippets.
func PlaylistCommand() *cli.Command {
	return &cli.Command{
		Name:   "playlist",
		Usage:  "Show the default snippet gallery for the host",
		Action: showPlaylist,
	}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}
}

func listSnippets(c *cli.Context) error {
	m, ctx := manager(c)
	items, err := m.Local(ctx)
	if err != nil {
		return err
	}
	out := c.App.Writer
	if c.String("output") == "json" {
		list := make([]domain.SnippetResponseDTO, 0, len(items))
		for _, s := range items {
			list = append(list, domain.NewSnippetResponse(s))
		}
		return writeJSON(out, list)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No snippets.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tDIRTY")
	for _, s := range items {
		created := "-"
		if !s.CreatedAt.IsZero() {
			created = s.CreatedAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", s.ID, s.Name(), created, s.IsDirty())
	}
	return tw.Flush()
}

func newSnippet(c *cli.Context) error {
	m, ctx := manager(c)
	s, err := m.New(ctx)
	if err != nil {
		return err
	}
	return printSnippet(c, s)
}

// lookup resolves the first argument to a stored snippet.
func lookup(c *cli.Context) (domain.Snippet, error) {
	id := c.Args().First()
	if id == "" {
		return domain.Snippet{}, errors.New("snippet id is required")
	}
	m, ctx := manager(c)
	s, err := m.Find(ctx, id)
	if err != nil {
		return s, err
	}
	if s.IsEmpty() {
		return s, fmt.Errorf("snippet %s not found", id)
	}
	return s, nil
}

func showSnippet(c *cli.Context) error {
	s, err := lookup(c)
	if err != nil {
		return err
	}
	return printSnippet(c, s)
}

func renameSnippet(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: rename <id> <name>")
	}
	s, err := lookup(c)
	if err != nil {
		return err
	}
	if s.Meta == nil {
		s.Meta = &domain.Meta{}
	}
	s.Meta.Name = c.Args().Get(1)
	m, ctx := manager(c)
	if err := m.Save(ctx, &s); err != nil {
		return err
	}
	return printSnippet(c, s)
}

func duplicateSnippet(c *cli.Context) error {
	s, err := lookup(c)
	if err != nil {
		return err
	}
	m, ctx := manager(c)
	dup, err := m.Duplicate(ctx, s)
	if err != nil {
		return err
	}
	return printSnippet(c, dup)
}

func deleteSnippet(c *cli.Context) error {
	s, err := lookup(c)
	if err != nil {
		return err
	}
	m, ctx := manager(c)
	res, err := m.Delete(ctx, &s, !c.Bool("yes"))
	if err != nil {
		return err
	}
	return printDeleteResult(c, res, s.Name())
}

func deleteAllSnippets(c *cli.Context) error {
	m, ctx := manager(c)
	res, err := m.DeleteAll(ctx, !c.Bool("yes"))
	if err != nil {
		return err
	}
	return printDeleteResult(c, res, "all snippets")
}

func printDeleteResult(c *cli.Context, res service.DeleteResult, what string) error {
	switch res.Status {
	case service.Deleted:
		fmt.Fprintf(c.App.Writer, "Deleted %s.\n", what)
	case service.Aborted:
		fmt.Fprintln(c.App.Writer, "Aborted.")
	default:
		return fmt.Errorf("delete %s: %s", what, res.Reason)
	}
	return nil
}

func showPlaylist(c *cli.Context) error {
	m, ctx := manager(c)
	g, err := m.Playlist(ctx)
	if err != nil {
		return err
	}
	if c.String("output") == "json" {
		return writeJSON(c.App.Writer, g)
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tNAME\tGIST\tDESCRIPTION")
	for _, grp := range g.Groups {
		for _, it := range grp.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", grp.Name, it.Name, it.GistID, it.Description)
		}
	}
	return tw.Flush()
}

func printSnippet(c *cli.Context, s domain.Snippet) error {
	resp := domain.NewSnippetResponse(s)
	if c.String("output") == "json" {
		return writeJSON(c.App.Writer, resp)
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", resp.ID)
	fmt.Fprintf(tw, "NAME\t%s\n", resp.Name)
	fmt.Fprintf(tw, "HASH\t%s\n", resp.Hash)
	fmt.Fprintf(tw, "DIRTY\t%t\n", resp.Dirty)
	if resp.Libraries != "" {
		fmt.Fprintf(tw, "LIBRARIES\t%d line(s)\n", strings.Count(resp.Libraries, "\n")+1)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if resp.Script != "" {
		fmt.Fprintf(c.App.Writer, "\n%s\n", resp.Script)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
