// Package onboarding implements the staged conversation that fills a user
// profile before digests can be generated. It is a pure state machine: each
// step takes the current profile and one message and returns the reply plus
// the updated profile; persistence belongs to the caller.
package onboarding

import (
	"fmt"
	"strconv"
	"strings"

	"docbot/internal/profile"
)

const (
	greeting = "Hi, I'm DocBot - your health assistant!\n" +
		"I'll help you track symptoms, remind you about meds, and send you weekly health content.\n\n" +
		"Let's start with a few quick questions. How old are you?"
	askWeight    = "What's your weight (in kg)?"
	askMeds      = "What medications are you currently taking?"
	askEmergency = "Who should we contact in case of emergency? [email]"
	askNewsPref  = "What kind of weekly health updates would you like?\nOptions: YouTube, Instagram Reel, TikTok, or Research News"
	askCondition = "What condition do you have? (Crohn's or Type II Diabetes)"
	doneMsg      = "Onboarding complete! Type 'weekly update' any time to get your digest."
)

var validNewsPrefs = []string{"YouTube", "Instagram Reel", "TikTok", "Research News"}

var validConditions = []string{"Crohn's", "Type II Diabetes"}

// Start returns the opening reply for a fresh profile.
func Start() string { return greeting }

// Advance consumes one user message for the profile's current stage and
// returns the next prompt along with the updated profile.
func Advance(p profile.Profile, message string) (string, profile.Profile) {
	message = strings.TrimSpace(message)

	switch p.Stage {
	case profile.StageAge:
		age, err := strconv.Atoi(message)
		if err != nil || age <= 0 {
			return "Please enter a valid age (a number).", p
		}
		p.Age = age
		p.Stage = profile.StageWeight
		return askWeight, p

	case profile.StageWeight:
		p.Weight = message
		p.Stage = profile.StageMedications
		return askMeds, p

	case profile.StageMedications:
		for _, med := range strings.Split(message, ",") {
			if med = strings.TrimSpace(med); med != "" {
				p.Medications = append(p.Medications, med)
			}
		}
		p.Stage = profile.StageEmergencyContact
		return askEmergency, p

	case profile.StageEmergencyContact:
		p.EmergencyContact = message
		p.Stage = profile.StageNewsPref
		return askNewsPref, p

	case profile.StageNewsPref:
		if !contains(validNewsPrefs, message) {
			return fmt.Sprintf("Please pick one of: %s.", strings.Join(validNewsPrefs, ", ")), p
		}
		p.NewsPref = message
		p.Stage = profile.StageCondition
		return askCondition, p

	case profile.StageCondition:
		if !contains(validConditions, message) {
			return fmt.Sprintf("Please pick one of: %s.", strings.Join(validConditions, " or ")), p
		}
		p.Condition = message
		p.Stage = profile.StageDone
		return doneMsg, p
	}

	return "You're fully onboarded. Type 'weekly update' to get your update.", p
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
