package client

import "github.com/yasmin191/hackathon-todo-evolution/internal/models"

type TaskAPI interface {
	GetTasks(userID string, filters *models.TaskFilters) ([]models.Task, error)
	CreateTask(userID string, data models.TaskCreate) (*models.Task, error)
	GetTask(userID string, taskID int64) (*models.Task, error)
	UpdateTask(userID string, taskID int64, data models.TaskUpdate) (*models.Task, error)
	DeleteTask(userID string, taskID int64) error
	ToggleComplete(userID string, taskID int64) (*models.Task, error)
}

type TagAPI interface {
	GetTags(userID string) ([]models.Tag, error)
	CreateTag(userID string, data models.TagCreate) (*models.Tag, error)
	UpdateTag(userID string, tagID int64, data models.TagUpdate) (*models.Tag, error)
	DeleteTag(userID string, tagID int64) error
	AddTagsToTask(userID string, taskID int64, tagIDs []int64) error
	RemoveTagFromTask(userID string, taskID, tagID int64) error
}

// ChatAPI sends one message per call; conversationID 0 starts a new
// conversation on the server.
type ChatAPI interface {
	SendMessage(message string, conversationID int64) (*models.ChatResponse, error)
	GetConversations() ([]models.Conversation, error)
	GetMessages(conversationID int64) ([]models.Message, error)
}

type TodoAPI interface {
	TaskAPI
	TagAPI
	ChatAPI
}
