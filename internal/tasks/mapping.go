package tasks

import "github.com/JaimeStill/scribe/pkg/repository"

const columns = "id, payload, status, created_at"

func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(&t.ID, &t.Payload, &t.Status, &t.CreatedAt)
	return t, err
}
