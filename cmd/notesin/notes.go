package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/notesin/internal/client"
	"example.com/notesin/internal/notebook"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/stringsx"
)

var (
	noteUser        string
	noteTitle       string
	noteDescription string
	listJSON        bool
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List, add, edit and delete notes",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		if strings.TrimSpace(noteUser) == "" {
			return errors.New("--user is required (see notesin login)")
		}
		rt.sess.Start(noteUser, session.User{ID: noteUser})
		return nil
	},
}

func openNotebook(cmd *cobra.Command) (*notebook.Notebook, *noticeWriter) {
	notices := notifier(cmd)
	return notebook.New(rt.api, rt.sess, notices, notebook.WithLogger(rt.log)), notices
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, notices := openNotebook(cmd)
		if err := nb.Refresh(cmd.Context()); err != nil {
			return notices.settle(err)
		}
		notes := nb.State().Notes

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(notes)
		}
		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes yet.")
			return nil
		}
		for _, n := range notes {
			fmt.Fprintf(out, "%s  %s  %s\n", n.ID, n.Title, stringsx.Ellipsize(stringsx.OneLine(n.Description), 60))
		}
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, notices := openNotebook(cmd)
		nb.OpenCreate()
		nb.SetCreateDraft(noteTitle, noteDescription)
		return notices.settle(nb.Add(cmd.Context()))
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Overwrite a note's title and description",
	Long: `Overwrite a note. A flag left out keeps the note's current value, which
is looked up on the server first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, notices := openNotebook(cmd)
		id := args[0]

		target := client.Note{ID: id}
		if !cmd.Flags().Changed("title") || !cmd.Flags().Changed("description") {
			if err := nb.Refresh(cmd.Context()); err != nil {
				return notices.settle(err)
			}
			n, ok := nb.Find(id)
			if !ok {
				return fmt.Errorf("note %s not found", id)
			}
			target = n
		}

		nb.OpenEdit(target)
		title, description := target.Title, target.Description
		if cmd.Flags().Changed("title") {
			title = noteTitle
		}
		if cmd.Flags().Changed("description") {
			description = noteDescription
		}
		nb.SetEditDraft(title, description)
		return notices.settle(nb.Edit(cmd.Context()))
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, notices := openNotebook(cmd)
		return notices.settle(nb.Delete(cmd.Context(), args[0]))
	},
}

func init() {
	notesCmd.PersistentFlags().StringVar(&noteUser, "user", "", "Your user id, as printed by notesin login")

	for _, c := range []*cobra.Command{notesAddCmd, notesEditCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteDescription, "description", "d", "", "Note text")
	}
	notesListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")

	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesEditCmd, notesDeleteCmd)
	rootCmd.AddCommand(notesCmd)
}
