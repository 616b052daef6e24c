package handler // handler defines http handlers

import (
	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// AdminHandler bundles repositories for the eighth-period office to
// manage the catalog and schedule.
type AdminHandler struct {
	SponsorRepo   *repository.SponsorRepo   // SponsorRepo provides sponsor persistence
	RoomRepo      *repository.RoomRepo      // RoomRepo provides room persistence
	ActivityRepo  *repository.ActivityRepo  // ActivityRepo provides activity persistence
	BlockRepo     *repository.BlockRepo     // BlockRepo provides block persistence
	ScheduledRepo *repository.ScheduledRepo // ScheduledRepo provides scheduled occurrence persistence
	AbsenceRepo   *repository.AbsenceRepo   // AbsenceRepo provides absence persistence
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil
func NewAdminHandler(sponsorRepo *repository.SponsorRepo, roomRepo *repository.RoomRepo, activityRepo *repository.ActivityRepo, blockRepo *repository.BlockRepo, scheduledRepo *repository.ScheduledRepo, absenceRepo *repository.AbsenceRepo) *AdminHandler {
	if sponsorRepo == nil || roomRepo == nil || activityRepo == nil || blockRepo == nil || scheduledRepo == nil || absenceRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		SponsorRepo:   sponsorRepo,
		RoomRepo:      roomRepo,
		ActivityRepo:  activityRepo,
		BlockRepo:     blockRepo,
		ScheduledRepo: scheduledRepo,
		AbsenceRepo:   absenceRepo,
	}
}

// ----- response DTOs shared across admin and student surfaces -----

type sponsorResp struct {
	ID               uint64  `json:"id"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	UserID           *uint64 `json:"user_id,omitempty"`
	OnlineAttendance bool    `json:"online_attendance"`
}

type roomResp struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type blockResp struct {
	ID     uint64 `json:"id"`
	Date   string `json:"date"`
	Letter string `json:"block_letter"`
	Locked bool   `json:"locked"`
}

type activityResp struct {
	ID          uint64        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Restricted  bool          `json:"restricted"`
	Presign     bool          `json:"presign"`
	OneADay     bool          `json:"one_a_day"`
	BothBlocks  bool          `json:"both_blocks"`
	Sticky      bool          `json:"sticky"`
	Special     bool          `json:"special"`
	Status      string        `json:"status"`
	Capacity    int           `json:"capacity"`
	Sponsors    []sponsorResp `json:"sponsors"`
	Rooms       []roomResp    `json:"rooms"`
}

type scheduledResp struct {
	ID              uint64        `json:"id"`
	BlockID         uint64        `json:"block_id"`
	ActivityID      uint64        `json:"activity_id"`
	ActivityName    string        `json:"activity_name"`
	Comments        string        `json:"comments"`
	Cancelled       bool          `json:"cancelled"`
	AttendanceTaken bool          `json:"attendance_taken"`
	Capacity        int           `json:"capacity"`
	Sponsors        []sponsorResp `json:"sponsors"`
	Rooms           []roomResp    `json:"rooms"`
	SignupCount     *int          `json:"signup_count,omitempty"`
}

func toSponsorResp(s model.Sponsor) sponsorResp {
	return sponsorResp{
		ID:               s.ID,
		FirstName:        s.FirstName,
		LastName:         s.LastName,
		UserID:           s.UserID,
		OnlineAttendance: s.OnlineAttendance,
	}
}

func toRoomResp(r model.Room) roomResp {
	return roomResp{ID: r.ID, Name: r.Name, Capacity: r.Capacity}
}

func toBlockResp(b model.Block) blockResp {
	return blockResp{
		ID:     b.ID,
		Date:   b.Date.Format("2006-01-02"),
		Letter: b.Letter,
		Locked: b.Locked,
	}
}

func toActivityResp(a *model.Activity) activityResp {
	sponsors := make([]sponsorResp, 0, len(a.Sponsors))
	for _, s := range a.Sponsors {
		sponsors = append(sponsors, toSponsorResp(s))
	}
	rooms := make([]roomResp, 0, len(a.Rooms))
	for _, r := range a.Rooms {
		rooms = append(rooms, toRoomResp(r))
	}
	return activityResp{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Restricted:  a.Restricted,
		Presign:     a.Presign,
		OneADay:     a.OneADay,
		BothBlocks:  a.BothBlocks,
		Sticky:      a.Sticky,
		Special:     a.Special,
		Status:      string(a.Status),
		Capacity:    a.Capacity(),
		Sponsors:    sponsors,
		Rooms:       rooms,
	}
}

// toScheduledResp renders an occurrence with its effective sponsor,
// room and capacity resolution already applied.
func toScheduledResp(sa *model.ScheduledActivity, signupCount *int) scheduledResp {
	effSponsors := sa.EffectiveSponsors()
	sponsors := make([]sponsorResp, 0, len(effSponsors))
	for _, s := range effSponsors {
		sponsors = append(sponsors, toSponsorResp(s))
	}
	effRooms := sa.EffectiveRooms()
	rooms := make([]roomResp, 0, len(effRooms))
	for _, r := range effRooms {
		rooms = append(rooms, toRoomResp(r))
	}
	return scheduledResp{
		ID:              sa.ID,
		BlockID:         sa.BlockID,
		ActivityID:      sa.ActivityID,
		ActivityName:    sa.Activity.Name,
		Comments:        sa.Comments,
		Cancelled:       sa.Cancelled,
		AttendanceTaken: sa.AttendanceTaken,
		Capacity:        sa.EffectiveCapacity(),
		Sponsors:        sponsors,
		Rooms:           rooms,
		SignupCount:     signupCount,
	}
}
