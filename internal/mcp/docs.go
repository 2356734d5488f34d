package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `lifehub keeps one ordered task list per calendar date (YYYY-MM-DD).

- Reading a date that has no list yet creates it by copying the most recent earlier list with fresh ids, every task incomplete.
- Dates default to today when omitted.
- Task ids change on every copy: call get_record before toggle_task, edit_task or delete_task.
- close_day records a summary for the date in history; closing again replaces it.
- delete_task only deletes with confirm=true; without it the tool describes what would be removed.`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "lifehub://docs/routine",
		Name:        "routine",
		Title:       "Daily routine model",
		Description: "How task lists, rollover, and day closing work",
		Content: `# Daily routine model

## Tasks

Each task has an id, a title, a scheduled time (HH:MM), a free-text duration
("1h 30m", "45 min", "2h"), an icon and a completed flag.

## Rollover

The first access to a date without a list copies the latest earlier list.
Copies get new ids and start incomplete. Later edits to either date never
affect the other.

## Closing a day

` + "`close_day`" + ` stores {date, score, completedCount, totalTasks, timeSpent}.
Score is the rounded completion percentage; timeSpent sums the parsed
durations of completed tasks in minutes. A date is closed at most once in
history: closing it again moves the replacement to the end.

## Templates

Templates are reusable tasks. Applying one appends a task at 09:00 to the
date and bumps the template's usage count.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
