package notify

import (
	"fmt"

	"github.com/jmercier/habitflow/internal/habit"
)

// milestoneMessages celebrate the streak milestones the projection
// also tracks.
var milestoneMessages = map[int]string{
	7:   "One full week! Your streak just went silver.",
	21:  "21 days in a row. They say that's how habits stick.",
	30:  "A whole month without missing. Gold streak unlocked!",
	50:  "50 days straight. You're unstoppable.",
	100: "100 days. Platinum. Legendary.",
}

// MilestoneMessage returns the celebration for a streak length, or ""
// when the length is not a milestone.
func MilestoneMessage(streak int) string {
	return milestoneMessages[streak]
}

// MotivationalMessage picks an encouragement matching the habit's
// current standing.
func MotivationalMessage(level habit.StreakLevel) string {
	switch level {
	case habit.LevelBronze:
		return "Nice start! Keep the chain going."
	case habit.LevelSilver:
		return "Over a week strong. Don't break it now."
	case habit.LevelGold:
		return "A month and counting. This is who you are now."
	case habit.LevelPlatinum:
		return "Triple digits. You've mastered this."
	default:
		return "Today is a great day to start a streak."
	}
}

// DangerMessage warns that a streak is about to break.
func DangerMessage(h *habit.Habit, streak int) string {
	return fmt.Sprintf("%s %s: your %d-day streak ends tonight unless you complete it today!", h.Icon, h.Name, streak)
}

// ReminderBody is the per-habit reminder text.
func ReminderBody(h *habit.Habit) string {
	return fmt.Sprintf("%s Time for %q. A small step keeps the streak alive.", h.Icon, h.Name)
}

// DailyBody summarizes the day for the evening reminder.
func DailyBody(completed, total int) string {
	switch {
	case total == 0:
		return "No habits scheduled today. Enjoy the rest!"
	case completed == total:
		return fmt.Sprintf("All %d habits done. Perfect day! 🎉", total)
	case completed == 0:
		return fmt.Sprintf("None of your %d habits are done yet. There's still time!", total)
	default:
		return fmt.Sprintf("%d of %d habits done. Finish strong!", completed, total)
	}
}
