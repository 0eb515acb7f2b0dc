package splitwise

import (
	"bytes"
	"encoding/json"
	"strconv"

	"pokerboard/internal/core"
)

type expensesEnvelope struct {
	Expenses []expenseDTO `json:"expenses"`
}

type expenseDTO struct {
	ID          int64          `json:"id"`
	Description *string        `json:"description"`
	Date        string         `json:"date"`
	Payment     flexBool       `json:"payment"`
	Users       []userShareDTO `json:"users"`
}

type userShareDTO struct {
	User      *userDTO  `json:"user"`
	PaidShare flexShare `json:"paid_share"`
	OwedShare flexShare `json:"owed_share"`
}

type userDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// flexShare holds a share that the API may send as a string, a number or null.
type flexShare string

func (s *flexShare) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexShare(str)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		// Not a number either; the share coerces to zero downstream.
		*s = ""
		return nil
	}
	*s = flexShare(data)
	return nil
}

// flexBool is set only by a literal JSON true. Strings, numbers and null
// all read as "not set" so a malformed flag never excludes an expense.
type flexBool struct {
	set   bool
	value bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*b = flexBool{set: true, value: true}
	case "false":
		*b = flexBool{set: true, value: false}
	default:
		*b = flexBool{}
	}
	return nil
}

func (e expenseDTO) toCore() core.Expense {
	exp := core.Expense{
		ID:           e.ID,
		Description:  e.Description,
		Date:         e.Date,
		Participants: make([]core.Participation, 0, len(e.Users)),
	}
	if e.Payment.set {
		exp = exp.WithPayment(e.Payment.value)
	}
	for _, u := range e.Users {
		var ref core.PlayerRef
		if u.User != nil {
			ref = core.PlayerRef{
				FirstName: u.User.FirstName,
				LastName:  u.User.LastName,
				Name:      u.User.Name,
				Email:     u.User.Email,
			}
		}
		exp.Participants = append(exp.Participants, core.Participation{
			Player:    ref,
			PaidShare: string(u.PaidShare),
			OwedShare: string(u.OwedShare),
		})
	}
	return exp
}
