package mysql

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Team_Orga/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每条连接各自一份，连接池收紧到1
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Team{},
		&model.User{},
		&model.UserRole{},
		&model.Game{},
		&model.Offer{},
		&model.DutySlot{},
		&model.Occupant{},
		&model.RosterOutbox{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{
		Username: name,
		Password: "x",
		Email:    name + "@example.com",
		FullName: name,
		TeamID:   1,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedGame(t *testing.T, db *gorm.DB) *model.Game {
	t.Helper()
	g := &model.Game{TeamID: 1, Opponent: "SV Gegner", CreatedBy: 1}
	require.NoError(t, db.Create(g).Error)
	return g
}

func seedOffer(t *testing.T, db *gorm.DB, gameID, driverID uint64, seats int) *model.Offer {
	t.Helper()
	o := &model.Offer{
		GameID:            gameID,
		UserID:            driverID,
		DepartureLocation: "Sportplatz",
		DepartureTime:     "09:30",
		SlotsTotal:        seats,
		SlotsAvailable:    seats,
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func seedLockerWeek(t *testing.T, db *gorm.DB, seats int) *model.DutySlot {
	t.Helper()
	s := &model.DutySlot{
		TeamID:         1,
		Kind:           model.GroupLocker,
		StartDate:      "2026-09-07",
		EndDate:        "2026-09-13",
		SlotsTotal:     seats,
		SlotsAvailable: seats,
		CreatedBy:      1,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedWashDay(t *testing.T, db *gorm.DB, day string) *model.DutySlot {
	t.Helper()
	s := &model.DutySlot{
		TeamID:         1,
		Kind:           model.GroupWash,
		StartDate:      day,
		EndDate:        day,
		SlotsTotal:     1,
		SlotsAvailable: 1,
		CreatedBy:      1,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func TestJoinUntilFullThenLeaveFreesSeat(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	b := seedUser(t, db, "ben")
	c := seedUser(t, db, "carla")
	d := seedUser(t, db, "dirk")
	slot := seedLockerWeek(t, db, 3)

	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "joined"))
	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, b.ID, b.ID, "joined"))
	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, c.ID, c.ID, "joined"))

	err := repo.Join(ctx, model.GroupLocker, slot.ID, d.ID, d.ID, "joined")
	assert.ErrorIs(t, err, model.ErrFull)

	require.NoError(t, repo.Leave(ctx, model.GroupLocker, slot.ID, b.ID, b.ID, "left"))
	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, d.ID, d.ID, "joined"))

	view, err := repo.View(ctx, model.GroupLocker, slot.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CapacityRemaining)
	assert.Equal(t, 3, view.CapacityTotal)
	assert.True(t, view.IsCallerMember)

	got := []uint64{}
	for _, o := range view.Occupants {
		got = append(got, o.UserID)
	}
	assert.ElementsMatch(t, []uint64{a.ID, c.ID, d.ID}, got)
}

func TestJoinTwiceRejected(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	slot := seedLockerWeek(t, db, 3)

	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "joined"))
	err := repo.Join(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "joined")
	assert.ErrorIs(t, err, model.ErrAlreadyMember)

	// 失败的加入不得扣名额
	view, err := repo.View(ctx, model.GroupLocker, slot.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, view.CapacityRemaining)
}

func TestJoinUnknownGroup(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	err := repo.Join(ctx, model.GroupLocker, 999, a.ID, a.ID, "joined")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDutyKindMustMatchSlot(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	locker := seedLockerWeek(t, db, 3)

	// 用 wash 身份去占 locker 周：分组视作不存在
	err := repo.Join(ctx, model.GroupWash, locker.ID, a.ID, a.ID, "joined")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// 正常占上 locker 名额后，同一行也不能再以 wash 身份占第二个座
	require.NoError(t, repo.Join(ctx, model.GroupLocker, locker.ID, a.ID, a.ID, "joined"))
	err = repo.Join(ctx, model.GroupWash, locker.ID, a.ID, a.ID, "joined")
	assert.ErrorIs(t, err, model.ErrNotFound)

	var s model.DutySlot
	require.NoError(t, db.First(&s, locker.ID).Error)
	assert.Equal(t, 2, s.SlotsAvailable)

	var u model.User
	require.NoError(t, db.First(&u, a.ID).Error)
	assert.EqualValues(t, 0, u.WashCount)
	assert.EqualValues(t, 1, u.LockerDutyCount)

	_, err = repo.View(ctx, model.GroupWash, locker.ID, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.Leave(ctx, model.GroupWash, locker.ID, a.ID, a.ID, "left")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.DeleteGroup(ctx, model.GroupWash, locker.ID, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, db.First(&s, locker.ID).Error)
	assert.Equal(t, 2, s.SlotsAvailable)
}

func TestConcurrentJoinsNeverOvershoot(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	b := seedUser(t, db, "ben")
	slot := seedWashDay(t, db, "2026-09-06")

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []uint64{a.ID, b.ID} {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			errs <- repo.Join(ctx, model.GroupWash, slot.ID, userID, userID, "joined")
		}(id)
	}
	wg.Wait()
	close(errs)

	var joined, full int
	for err := range errs {
		switch {
		case err == nil:
			joined++
		case errors.Is(err, model.ErrFull):
			full++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	assert.Equal(t, 1, joined)
	assert.Equal(t, 1, full)

	var n int64
	require.NoError(t, db.Model(&model.Occupant{}).Where("group_id = ?", slot.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	var s model.DutySlot
	require.NoError(t, db.First(&s, slot.ID).Error)
	assert.Equal(t, 0, s.SlotsAvailable)
}

func TestLastSeatGoesToOneRequest(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	b := seedUser(t, db, "ben")
	slot := seedWashDay(t, db, "2026-09-06")

	require.NoError(t, repo.Join(ctx, model.GroupWash, slot.ID, a.ID, a.ID, "joined"))
	err := repo.Join(ctx, model.GroupWash, slot.ID, b.ID, b.ID, "joined")
	assert.ErrorIs(t, err, model.ErrFull)

	view, err := repo.View(ctx, model.GroupWash, slot.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CapacityRemaining)
	assert.Len(t, view.Occupants, 1)
}

func TestCarpoolDriverCannotTakeOwnSeat(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	driver := seedUser(t, db, "dana")
	game := seedGame(t, db)
	offer := seedOffer(t, db, game.ID, driver.ID, 2)

	err := repo.Join(ctx, model.GroupCarpool, offer.ID, driver.ID, driver.ID, "joined")
	assert.ErrorIs(t, err, model.ErrAlreadyMember)
}

func TestCarpoolOneCarPerGame(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	d1 := seedUser(t, db, "dana")
	d2 := seedUser(t, db, "dirk")
	rider := seedUser(t, db, "rosa")
	game := seedGame(t, db)
	o1 := seedOffer(t, db, game.ID, d1.ID, 2)
	o2 := seedOffer(t, db, game.ID, d2.ID, 2)

	require.NoError(t, repo.Join(ctx, model.GroupCarpool, o1.ID, rider.ID, rider.ID, "joined"))
	err := repo.Join(ctx, model.GroupCarpool, o2.ID, rider.ID, rider.ID, "joined")
	assert.ErrorIs(t, err, model.ErrAlreadyMember)

	// 换车：先下车再上另一辆
	require.NoError(t, repo.Leave(ctx, model.GroupCarpool, o1.ID, rider.ID, rider.ID, "left"))
	require.NoError(t, repo.Join(ctx, model.GroupCarpool, o2.ID, rider.ID, rider.ID, "joined"))

	// 不同比赛互不影响
	game2 := seedGame(t, db)
	o3 := seedOffer(t, db, game2.ID, d1.ID, 2)
	require.NoError(t, repo.Join(ctx, model.GroupCarpool, o3.ID, rider.ID, rider.ID, "joined"))
}

func TestLeaveWithoutMembership(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	slot := seedLockerWeek(t, db, 3)

	err := repo.Leave(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "left")
	assert.ErrorIs(t, err, model.ErrNotMember)

	err = repo.Leave(ctx, model.GroupLocker, 999, a.ID, a.ID, "left")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDutyCountersFollowMembership(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	locker := seedLockerWeek(t, db, 3)
	wash := seedWashDay(t, db, "2026-09-06")

	require.NoError(t, repo.Join(ctx, model.GroupLocker, locker.ID, a.ID, a.ID, "joined"))
	require.NoError(t, repo.Join(ctx, model.GroupWash, wash.ID, a.ID, a.ID, "joined"))

	var u model.User
	require.NoError(t, db.First(&u, a.ID).Error)
	assert.EqualValues(t, 1, u.LockerDutyCount)
	assert.EqualValues(t, 1, u.WashCount)

	require.NoError(t, repo.Leave(ctx, model.GroupLocker, locker.ID, a.ID, a.ID, "left"))
	require.NoError(t, repo.Leave(ctx, model.GroupWash, wash.ID, a.ID, a.ID, "left"))

	require.NoError(t, db.First(&u, a.ID).Error)
	assert.EqualValues(t, 0, u.LockerDutyCount)
	assert.EqualValues(t, 0, u.WashCount)
}

func TestCounterNeverGoesNegative(t *testing.T) {
	db := setupDB(t)

	a := seedUser(t, db, "anna")
	require.NoError(t, decrementCounter(db, "wash_count", a.ID))

	var u model.User
	require.NoError(t, db.First(&u, a.ID).Error)
	assert.EqualValues(t, 0, u.WashCount)
}

func TestCarpoolJoinDoesNotTouchCounters(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	driver := seedUser(t, db, "dana")
	rider := seedUser(t, db, "rosa")
	game := seedGame(t, db)
	offer := seedOffer(t, db, game.ID, driver.ID, 2)

	require.NoError(t, repo.Join(ctx, model.GroupCarpool, offer.ID, rider.ID, rider.ID, "joined"))

	var u model.User
	require.NoError(t, db.First(&u, rider.ID).Error)
	assert.EqualValues(t, 0, u.WashCount)
	assert.EqualValues(t, 0, u.LockerDutyCount)
}

func TestDeleteGroupRollsBackCounters(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	b := seedUser(t, db, "ben")
	slot := seedLockerWeek(t, db, 3)

	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "joined"))
	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, b.ID, b.ID, "joined"))

	removed, err := repo.DeleteGroup(ctx, model.GroupLocker, slot.ID, 1)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	var u model.User
	require.NoError(t, db.First(&u, a.ID).Error)
	assert.EqualValues(t, 0, u.LockerDutyCount)

	var n int64
	require.NoError(t, db.Model(&model.Occupant{}).Where("group_id = ?", slot.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	_, err = repo.DeleteGroup(ctx, model.GroupLocker, slot.ID, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteGameCascade(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	driver := seedUser(t, db, "dana")
	rider := seedUser(t, db, "rosa")
	game := seedGame(t, db)
	offer := seedOffer(t, db, game.ID, driver.ID, 2)

	require.NoError(t, repo.Join(ctx, model.GroupCarpool, offer.ID, rider.ID, rider.ID, "joined"))
	require.NoError(t, repo.DeleteGameCascade(ctx, game.ID, 1))

	var n int64
	require.NoError(t, db.Model(&model.Game{}).Where("id = ?", game.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.Offer{}).Where("game_id = ?", game.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.Occupant{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestDeleteUserCascade(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	driver := seedUser(t, db, "dana")
	rider := seedUser(t, db, "rosa")
	game := seedGame(t, db)
	offer := seedOffer(t, db, game.ID, driver.ID, 2)
	slot := seedLockerWeek(t, db, 3)

	require.NoError(t, repo.Join(ctx, model.GroupCarpool, offer.ID, rider.ID, rider.ID, "joined"))
	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, driver.ID, driver.ID, "joined"))
	require.NoError(t, db.Create(&model.UserRole{UserID: driver.ID, Role: model.RoleAdmin, GrantedBy: driver.ID}).Error)

	require.NoError(t, repo.DeleteUserCascade(ctx, driver.ID))

	// 司机删号：自己占的值日名额回流，车位发布连同乘客一起消失
	var s model.DutySlot
	require.NoError(t, db.First(&s, slot.ID).Error)
	assert.Equal(t, 3, s.SlotsAvailable)

	var n int64
	require.NoError(t, db.Model(&model.Offer{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.Occupant{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.UserRole{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", driver.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	err := repo.DeleteUserCascade(ctx, driver.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOutboxWrittenWithMembershipChange(t *testing.T) {
	db := setupDB(t)
	repo := &RosterRepository{DB: db}
	ctx := context.Background()

	a := seedUser(t, db, "anna")
	slot := seedLockerWeek(t, db, 3)

	require.NoError(t, repo.Join(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "joined"))
	require.NoError(t, repo.Leave(ctx, model.GroupLocker, slot.ID, a.ID, a.ID, "left"))

	var events []model.RosterOutbox
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, "joined", events[0].EventType)
	assert.Equal(t, "left", events[1].EventType)
	assert.Equal(t, a.ID, events[0].UserID)
	assert.Contains(t, events[0].Payload, "event_id")

	// 失败的操作不留事件
	err := repo.Join(ctx, model.GroupLocker, 999, a.ID, a.ID, "joined")
	assert.ErrorIs(t, err, model.ErrNotFound)
	var n int64
	require.NoError(t, db.Model(&model.RosterOutbox{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}
