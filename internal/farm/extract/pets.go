package extract

import (
	"time"

	"github.com/tidwall/gjson"

	"farmwatch/internal/farm"
)

// Pets fall asleep two hours after being petted.
const petSleepDelay = 2 * time.Hour

// PetSleep is one pet's upcoming bedtime, fed to the pet sleep clusterer.
type PetSleep struct {
	Name     string
	AsleepAt time.Time
}

// Pets collects the bedtime of every petted pet, common pets and NFT pets
// alike. The pets object mixes pet entries with bookkeeping keys, which are
// skipped by name.
func Pets(snap *farm.Snapshot, now time.Time) ([]PetSleep, []farm.Outcome) {
	var sleeps []PetSleep
	var skips []farm.Outcome

	collect := func(petID, pet gjson.Result) {
		name := pet.Get("name").String()
		if name == "" {
			name = petID.String()
		}
		pettedAt, ok := msTime(pet.Get("pettedAt"))
		if !ok {
			skips = append(skips, farm.Skip("pet "+name+": never petted"))
			return
		}
		sleeps = append(sleeps, PetSleep{Name: name, AsleepAt: pettedAt.Add(petSleepDelay)})
	}

	snap.Get("pets").ForEach(func(key, pet gjson.Result) bool {
		switch key.String() {
		case "requestsGeneratedAt", "nfts":
			return true
		}
		collect(key, pet)
		return true
	})
	snap.Get("pets.nfts").ForEach(func(nftID, pet gjson.Result) bool {
		collect(nftID, pet)
		return true
	})
	return sleeps, skips
}
