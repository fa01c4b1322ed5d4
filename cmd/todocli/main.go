package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/client/todoapi"
	"github.com/yasmin191/hackathon-todo-evolution/internal/controller"
	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/session"
)

const usage = `usage: todocli [-api URL] [-session FILE] <command>

commands:
  login <email>    sign in with the demo login
  logout           forget the stored session
  list             show your tasks
  add <title...>   create a task
  done <id>        toggle a task's completion
  rm <id>          delete a task
  tags             list your tags
  chat             talk to the assistant (interactive)
`

func main() {
	defaultAPI := os.Getenv("TODO_API_URL")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}
	apiURL := flag.String("api", defaultAPI, "backend base URL")
	sessionFile := flag.String("session", defaultSessionPath(), "session file path")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	api := todoapi.NewClient(*apiURL)
	store := session.NewStore(session.NewFileStorage(*sessionFile), api)
	store.Current()
	api.OnUnauthorized(func() {
		fmt.Fprintln(os.Stderr, "Session expired, please log in again.")
		store.Clear()
	})

	if err := run(args, api, store); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todocli-session.json"
	}
	return filepath.Join(home, ".todocli-session.json")
}

func run(args []string, api *todoapi.Client, store *session.Store) error {
	command, rest := args[0], args[1:]

	switch command {
	case "login":
		if len(rest) != 1 {
			return fmt.Errorf("usage: todocli login <email>")
		}
		sess, err := api.DemoLogin(rest[0])
		if err != nil {
			return err
		}
		if err := store.Save(*sess); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", sess.User.Email, sess.User.ID)
		return nil

	case "logout":
		store.Clear()
		fmt.Println("Logged out.")
		return nil

	case "list":
		return listTasks(api, store)

	case "add":
		if len(rest) == 0 {
			return fmt.Errorf("usage: todocli add <title>")
		}
		tasks := controller.NewTaskList(api, store)
		if err := tasks.Load(); err != nil {
			return err
		}
		task, err := tasks.Create(models.TaskCreate{Title: strings.Join(rest, " ")})
		if err != nil {
			return err
		}
		fmt.Printf("Created task %d: %s\n", task.ID, task.Title)
		return nil

	case "done":
		taskID, err := argID(rest, "done")
		if err != nil {
			return err
		}
		tasks := controller.NewTaskList(api, store)
		if err := tasks.Load(); err != nil {
			return err
		}
		task, err := tasks.ToggleComplete(taskID)
		if err != nil {
			return err
		}
		fmt.Println(taskLine(*task))
		return nil

	case "rm":
		taskID, err := argID(rest, "rm")
		if err != nil {
			return err
		}
		tasks := controller.NewTaskList(api, store)
		if err := tasks.Load(); err != nil {
			return err
		}
		if err := tasks.Delete(taskID); err != nil {
			return err
		}
		fmt.Printf("Deleted task %d\n", taskID)
		return nil

	case "tags":
		return listTags(api, store)

	case "chat":
		return chatLoop(api, store)
	}

	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}

func argID(rest []string, command string) (int64, error) {
	if len(rest) != 1 {
		return 0, fmt.Errorf("usage: todocli %s <id>", command)
	}
	taskID, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", rest[0])
	}
	return taskID, nil
}

func listTasks(api *todoapi.Client, store *session.Store) error {
	tasks := controller.NewTaskList(api, store)
	if err := tasks.Load(); err != nil {
		return err
	}
	all := tasks.Tasks()
	if len(all) == 0 {
		fmt.Println("No tasks. Add one with: todocli add <title>")
		return nil
	}
	for _, task := range all {
		fmt.Println(taskLine(task))
	}
	fmt.Printf("%d pending, %d completed\n", tasks.PendingCount(), tasks.CompletedCount())
	return nil
}

func taskLine(task models.Task) string {
	marker := "○"
	if task.Completed {
		marker = "✓"
	}
	line := fmt.Sprintf("%s [%d] %s", marker, task.ID, task.Title)
	if phrase := models.DueDatePhrase(task.DueDate, time.Now()); phrase != "" {
		line += " (" + phrase + ")"
	}
	if len(task.Tags) > 0 {
		names := make([]string, 0, len(task.Tags))
		for _, tag := range task.Tags {
			names = append(names, tag.Name)
		}
		line += " #" + strings.Join(names, " #")
	}
	return line
}

func listTags(api *todoapi.Client, store *session.Store) error {
	user := store.CurrentUser()
	if user == nil {
		return fmt.Errorf("not logged in")
	}
	tags, err := api.GetTags(user.ID)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Println("No tags yet.")
		return nil
	}
	for _, tag := range tags {
		fmt.Printf("[%d] %s (%s)\n", tag.ID, tag.Name, tag.Color)
	}
	return nil
}

func chatLoop(api *todoapi.Client, store *session.Store) error {
	if !store.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	chat := controller.NewChat(api)
	for _, turn := range chat.Turns() {
		printTurn(turn)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`(type "quit" to exit)`)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "quit" || text == "exit" {
			return nil
		}

		before := len(chat.Turns())
		if err := chat.Send(text); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		for _, turn := range chat.Turns()[before:] {
			printTurn(turn)
		}
	}
}

func printTurn(turn controller.Turn) {
	label := "you"
	if turn.Role == models.RoleAssistant {
		label = "assistant"
	}
	fmt.Printf("[%s] %s\n", label, turn.Content)
}
