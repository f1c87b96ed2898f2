package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// Skills emits a cooldown-over event for each power skill the bumpkin both
// owns and has used. Skills never used have no previousPowerUseAt entry and
// stay silent.
func Skills(snap *farm.Snapshot, now time.Time) []farm.Outcome {
	var outs []farm.Outcome
	owned := snap.Get("bumpkin.skills")
	if !owned.Exists() {
		return nil
	}
	snap.Get("bumpkin.previousPowerUseAt").ForEach(func(skill, lastUse gjson.Result) bool {
		name := skill.String()
		if !owned.Get(name).Exists() {
			return true
		}
		cooldown, ok := farm.SkillCooldowns[name]
		if !ok {
			outs = append(outs, farm.Skip("skill " + name + ": no cooldown known"))
			return true
		}
		usedAt, ok := msTime(lastUse)
		if !ok {
			return true
		}
		if ev, future := futureEvent(farm.CategorySkills, name, 1, usedAt.Add(cooldown), now); future {
			outs = append(outs, ev)
		}
		return true
	})
	return outs
}
