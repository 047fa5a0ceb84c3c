package pipeline

import "github.com/honeynil/bankfront/internal/models"

// StatusAll selects every request regardless of status.
const StatusAll = "all"

type StatusCounts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func CountByStatus(reqs []models.PaymentRequest) StatusCounts {
	c := StatusCounts{All: len(reqs)}
	for _, r := range reqs {
		switch r.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusApproved:
			c.Approved++
		case models.StatusRejected:
			c.Rejected++
		}
	}
	return c
}

// FilterByStatus keeps requests in the given status; "" and StatusAll keep all.
func FilterByStatus(reqs []models.PaymentRequest, status string) []models.PaymentRequest {
	if status == "" || status == StatusAll {
		return append([]models.PaymentRequest(nil), reqs...)
	}
	out := make([]models.PaymentRequest, 0, len(reqs))
	for _, r := range reqs {
		if string(r.Status) == status {
			out = append(out, r)
		}
	}
	return out
}
