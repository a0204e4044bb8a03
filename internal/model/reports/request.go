package reports

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

var periods = []string{"", "week", "month", "year"}

var kindOptions = []string{"", "income", "expense"}

// Request asks for a statement of one user's ledger to be delivered to a chat.
type Request struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	Period string `json:"period"`
	Kind   string `json:"kind,omitempty"`
}

// NewRequest parses "[period] [income|expense]" in any order.
func NewRequest(userID, chatID int64, arg string) (Request, error) {
	req := Request{
		ID:     uuid.NewString(),
		UserID: userID,
		ChatID: chatID,
	}
	for _, word := range strings.Fields(strings.ToLower(arg)) {
		switch {
		case contains(periods, word):
			req.Period = word
		case contains(kindOptions, word):
			req.Kind = word
		default:
			return Request{}, customerr.Validation("report", "unknown option "+word)
		}
	}
	return req, nil
}

func (r Request) validate() error {
	if r.UserID <= 0 {
		return customerr.Validation("report", "user is missing")
	}
	if !contains(periods, r.Period) {
		return customerr.Validation("report", "period "+r.Period+" is not supported")
	}
	if !contains(kindOptions, r.Kind) {
		return customerr.Validation("report", "kind "+r.Kind+" is not supported")
	}
	return nil
}

// Option names the requested variant. Generator.CacheOption adds the
// period start for cache keys.
func (r Request) Option() string {
	return r.Period + ":" + r.Kind
}

func (r Request) filterKind() *transaction.Kind {
	if r.Kind == "" {
		return nil
	}
	k := transaction.Kind(strings.ToUpper(r.Kind))
	return &k
}

func (r Request) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func UnmarshalRequest(data []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return Request{}, errors.Wrap(err, "unmarshal report request")
	}
	if err := r.validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
