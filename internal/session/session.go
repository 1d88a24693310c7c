// Package session tracks in-progress conversations per user: which
// conversation kind is active, which step it is on, and the fields collected
// so far. Sessions are ephemeral and vanish on process restart.
package session

import (
	"time"

	"github.com/9304065865a/podolog/internal/models"
)

// Kind tags which conversation a session belongs to.
type Kind string

const (
	// KindAppointment is the client booking conversation.
	KindAppointment Kind = "appointment"
	// KindScheduleFill is the admin schedule-filling conversation.
	KindScheduleFill Kind = "schedule_fill"
)

// Step is a state of a conversation's machine. Steps are closed per kind;
// transitions outside the table below are rejected by Store.Advance.
type Step string

const (
	StepCollectingName        Step = "collecting_name"
	StepCollectingPhone       Step = "collecting_phone"
	StepCollectingDescription Step = "collecting_description"
	StepOfferingPhoto         Step = "offering_photo"
	StepCollectingPhoto       Step = "collecting_photo"
	StepSelectingDate         Step = "selecting_date"
	StepSelectingTime         Step = "selecting_time"

	StepFillSelectingDate  Step = "fill_selecting_date"
	StepFillSelectingStart Step = "fill_selecting_start"
	StepFillSelectingEnd   Step = "fill_selecting_end"
)

// transitions lists the legal successor steps per kind. A step may always
// re-enter itself: invalid input and slot conflicts re-prompt in place.
var transitions = map[Kind]map[Step][]Step{
	KindAppointment: {
		StepCollectingName:        {StepCollectingPhone},
		StepCollectingPhone:       {StepCollectingDescription},
		StepCollectingDescription: {StepOfferingPhoto},
		StepOfferingPhoto:         {StepCollectingPhoto, StepSelectingDate},
		StepCollectingPhoto:       {StepSelectingDate},
		StepSelectingDate:         {StepSelectingTime},
		StepSelectingTime:         {StepSelectingDate},
	},
	KindScheduleFill: {
		StepFillSelectingDate:  {StepFillSelectingStart},
		StepFillSelectingStart: {StepFillSelectingEnd},
		StepFillSelectingEnd:   {},
	},
}

// First returns the entry step of a conversation kind.
func First(kind Kind) Step {
	switch kind {
	case KindScheduleFill:
		return StepFillSelectingDate
	default:
		return StepCollectingName
	}
}

func allowed(kind Kind, from, to Step) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// Fields holds the values collected so far. Unused fields stay zero; which
// ones are meaningful depends on the kind and step.
type Fields struct {
	Name        string
	Phone       string
	Description string
	PhotoPath   string

	Date      time.Time
	Time      models.TimeOfDay
	StartTime models.TimeOfDay
	EndTime   models.TimeOfDay
}

// Session is one user's in-progress conversation.
type Session struct {
	Kind   Kind
	Step   Step
	Fields Fields
}
