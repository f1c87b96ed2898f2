package farm

import "time"

// Notification categories. GroupIDs and summary lines are keyed off these, so
// renaming one invalidates persisted scheduling state.
const (
	CategoryCrops          = "crops"
	CategoryFruits         = "fruits"
	CategoryGreenhouse     = "greenhouse"
	CategoryResources      = "resources"
	CategoryAnimals        = "animals"
	CategoryAnimalsLove    = "animals_love"
	CategoryAnimalSick     = "animal_sick"
	CategoryCooking        = "cooking"
	CategoryComposters     = "composters"
	CategoryFlowers        = "flowers"
	CategoryCraftingBox    = "crafting_box"
	CategoryBeehives       = "beehives"
	CategoryBeehiveSwarm   = "beehive_swarm"
	CategoryCropMachine    = "crop_machine"
	CategorySunstones      = "sunstones"
	CategorySkills         = "skills"
	CategoryDailyReset     = "daily_reset"
	CategoryMarketplace    = "marketplace"
	CategoryFloatingIsland = "floating_island"
	CategoryIslandShop     = "island_shop"
	CategoryAuctions       = "auctions"
	CategoryPets           = "pets"
)

// ReadyEvent is one future completion extracted from a snapshot: a crop that
// finishes growing, an animal waking up, a dish leaving the oven.
//
// Identity is set for categories where each entity keeps its own notification
// (sunstone nodes, beehives, auctions); it is empty when events of the same
// subject collapse into one group.
type ReadyEvent struct {
	Category string
	Subject  string
	Quantity int
	ReadyAt  time.Time
	Identity string
	Detail   string
}

// AuctionInfo is the typed metadata attached to a scheduled auction group.
type AuctionInfo struct {
	AuctionID   string
	StartAt     time.Time
	EndAt       time.Time
	SFL         float64
	Ingredients map[string]float64
}

// NotificationGroup is the clustered unit handed to the scheduling state
// machine. GroupID is deterministic across runs: it derives only from the
// category, subject, and identity, never from timestamps, so re-running the
// pipeline on unchanged data lands every group on the same alarm slot.
type NotificationGroup struct {
	Category      string
	DisplayName   string
	Quantity      int
	EarliestReady time.Time
	GroupID       string
	Detail        string
	Auction       *AuctionInfo
}

// Outcome is the per-entity extraction result: either a ready event or a skip
// with a reason. Skips are not errors; the collector logs them once per run so
// a single malformed plot never aborts the pipeline.
type Outcome struct {
	event ReadyEvent
	skip  string
	ok    bool
}

func OK(ev ReadyEvent) Outcome { return Outcome{event: ev, ok: true} }

func Skip(reason string) Outcome { return Outcome{skip: reason} }

func (o Outcome) OK() bool { return o.ok }

func (o Outcome) Event() ReadyEvent { return o.event }

func (o Outcome) SkipReason() string { return o.skip }
