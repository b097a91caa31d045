// Package testutil holds in-memory fakes of the ride-service ports.
package testutil

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
	"ride-booking/internal/ride-service/core/ports"
)

// Epoch is the created_at of the first stored ride; later rides are one
// second apart.
var Epoch = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

// Store keeps users, drivers and rides in maps. Transactions are serialized
// on one mutex and rolled back by restoring a snapshot.
type Store struct {
	mu      sync.Mutex
	users   map[int64]model.User
	drivers map[int64]model.Driver
	rides   map[int64]model.Ride

	nextUser   int64
	nextDriver int64
	nextRide   int64

	// Err, when set, is returned by every call.
	Err error
}

var (
	_ ports.IRidesRepo   = (*Store)(nil)
	_ ports.IUsersRepo   = (*Store)(nil)
	_ ports.IDriversRepo = (*Store)(nil)
	_ ports.IDB          = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:   map[int64]model.User{},
		drivers: map[int64]model.Driver{},
		rides:   map[int64]model.Ride{},
	}
}

func (s *Store) IsAlive(ctx context.Context) error {
	return s.Err
}

func (s *Store) Close() error {
	return nil
}

// SeedUser adds a rider and returns its id.
func (s *Store) SeedUser(fullName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(model.User{
		FullName: fullName,
		Email:    strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@example.com",
		MobileNo: "5550000000",
		Role:     model.RoleRider,
	})
}

// SeedDriver adds a driver account and returns the driver id.
func (s *Store) SeedDriver(fullName string, available bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	userId := s.insertUser(model.User{
		FullName: fullName,
		Email:    strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@drivers.example.com",
		MobileNo: "5551111111",
		Role:     model.RoleDriver,
	})
	s.nextDriver++
	s.drivers[s.nextDriver] = model.Driver{
		DriverId:    s.nextDriver,
		UserId:      userId,
		LicenseNo:   "LIC-" + fullName,
		CarModel:    "Sedan",
		IsAvailable: available,
	}
	return s.nextDriver
}

// Ride returns the stored ride, bypassing the ports.
func (s *Store) Ride(rideId int64) (model.Ride, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rides[rideId]
	return r, ok
}

// Driver returns the stored driver, bypassing the ports.
func (s *Store) Driver(driverId int64) (model.Driver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drivers[driverId]
	return d, ok
}

// PutRide overwrites a ride as is, for tests that need a given state.
func (s *Store) PutRide(ride model.Ride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = Epoch.Add(time.Duration(ride.RideId) * time.Second)
	}
	if ride.RideId > s.nextRide {
		s.nextRide = ride.RideId
	}
	s.rides[ride.RideId] = ride
}

func (s *Store) insertUser(u model.User) int64 {
	s.nextUser++
	u.UserId = s.nextUser
	u.CreatedAt = Epoch
	s.users[u.UserId] = u
	return u.UserId
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if s.emailTaken(user.Email) {
		return 0, myerrors.ErrEmailRegistered
	}
	return s.insertUser(user), nil
}

func (s *Store) emailTaken(email string) bool {
	for _, u := range s.users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) Exists(ctx context.Context, userId int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.users[userId]
	return ok, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findUser(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) GetByMobile(ctx context.Context, mobileNo string) (model.User, error) {
	return s.findUser(func(u model.User) bool { return u.MobileNo == mobileNo })
}

func (s *Store) findUser(match func(model.User) bool) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}
	for id := int64(1); id <= s.nextUser; id++ {
		if u, ok := s.users[id]; ok && match(u) {
			return u, nil
		}
	}
	return model.User{}, myerrors.ErrUserNotFound
}

func (s *Store) CreateDriver(ctx context.Context, user model.User, driver model.Driver) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	if s.emailTaken(user.Email) {
		return 0, 0, myerrors.ErrEmailRegistered
	}
	for _, d := range s.drivers {
		if d.LicenseNo == driver.LicenseNo {
			return 0, 0, myerrors.ErrLicenseRegistered
		}
	}
	userId := s.insertUser(user)
	s.nextDriver++
	driver.DriverId = s.nextDriver
	driver.UserId = userId
	s.drivers[driver.DriverId] = driver
	return userId, driver.DriverId, nil
}

func (s *Store) GetByUserId(ctx context.Context, userId int64) (model.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.Driver{}, s.Err
	}
	for _, d := range s.drivers {
		if d.UserId == userId {
			return s.withUser(d), nil
		}
	}
	return model.Driver{}, myerrors.ErrDriverNotFound
}

func (s *Store) ListDrivers(ctx context.Context, onlyAvailable bool) ([]model.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Driver
	for id := int64(1); id <= s.nextDriver; id++ {
		d, ok := s.drivers[id]
		if !ok || (onlyAvailable && !d.IsAvailable) {
			continue
		}
		out = append(out, s.withUser(d))
	}
	return out, nil
}

func (s *Store) withUser(d model.Driver) model.Driver {
	u := s.users[d.UserId]
	d.FullName = u.FullName
	d.Email = u.Email
	d.MobileNo = u.MobileNo
	return d
}

func (s *Store) CreateRide(ctx context.Context, ride model.Ride) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if _, ok := s.users[ride.UserId]; !ok {
		return 0, myerrors.ErrUserNotFound
	}
	s.nextRide++
	ride.RideId = s.nextRide
	ride.DriverId = nil
	ride.CreatedAt = Epoch.Add(time.Duration(ride.RideId) * time.Second)
	s.rides[ride.RideId] = ride
	return ride.RideId, nil
}

func (s *Store) GetRideDetails(ctx context.Context, rideId int64) (model.RideDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.RideDetails{}, s.Err
	}
	r, ok := s.rides[rideId]
	if !ok {
		return model.RideDetails{}, myerrors.ErrRideNotFound
	}
	details := model.RideDetails{Ride: r}
	if r.DriverId != nil {
		if d, ok := s.drivers[*r.DriverId]; ok {
			u := s.users[d.UserId]
			details.DriverDetails = &model.DriverDetails{
				DriverId:  d.DriverId,
				CarModel:  d.CarModel,
				LicenseNo: d.LicenseNo,
				User: &model.DriverUser{
					UserId:   u.UserId,
					FullName: u.FullName,
					MobileNo: u.MobileNo,
				},
			}
		}
	}
	return details, nil
}

func (s *Store) ListRides(ctx context.Context, filter model.RideFilter) ([]model.RideSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.RideSummary
	for _, r := range s.rides {
		if filter.UserId != 0 && r.UserId != filter.UserId {
			continue
		}
		if filter.DriverId != 0 && (r.DriverId == nil || *r.DriverId != filter.DriverId) {
			continue
		}
		out = append(out, s.summary(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].RideId > out[j].RideId
	})
	return out, nil
}

func (s *Store) ListUnassigned(ctx context.Context) ([]model.RideSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.RideSummary
	for _, r := range s.rides {
		if r.DriverId == nil && r.Status == model.StatusPending {
			out = append(out, s.summary(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].RideId < out[j].RideId
	})
	return out, nil
}

func (s *Store) summary(r model.Ride) model.RideSummary {
	sum := model.RideSummary{
		RideId:      r.RideId,
		UserId:      r.UserId,
		DriverId:    r.DriverId,
		Pickup:      r.Pickup,
		Destination: r.Destination,
		Fare:        r.Fare,
		Status:      r.Status,
		UserName:    s.users[r.UserId].FullName,
		CreatedAt:   r.CreatedAt,
	}
	if r.DriverId != nil {
		if d, ok := s.drivers[*r.DriverId]; ok {
			name := s.users[d.UserId].FullName
			sum.DriverName = &name
		}
	}
	return sum
}

func (s *Store) InTx(ctx context.Context, fn func(tx ports.IRideTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	rides := maps.Clone(s.rides)
	drivers := maps.Clone(s.drivers)
	if err := fn(memTx{s: s}); err != nil {
		s.rides = rides
		s.drivers = drivers
		return err
	}
	return nil
}

// memTx runs with Store.mu held.
type memTx struct {
	s *Store
}

func (tx memTx) ClaimRide(ctx context.Context, rideId, driverId int64) (model.Ride, bool, error) {
	r, ok := tx.s.rides[rideId]
	if !ok || r.DriverId != nil || r.Status != model.StatusPending {
		return model.Ride{}, false, nil
	}
	if _, ok := tx.s.drivers[driverId]; !ok {
		return model.Ride{}, false, myerrors.ErrDriverNotFound
	}
	id := driverId
	r.DriverId = &id
	r.Status = model.StatusAccepted
	tx.s.rides[rideId] = r
	return r, true, nil
}

func (tx memTx) LockRide(ctx context.Context, rideId int64) (model.Ride, error) {
	r, ok := tx.s.rides[rideId]
	if !ok {
		return model.Ride{}, myerrors.ErrRideNotFound
	}
	return r, nil
}

func (tx memTx) UpdateRideStatus(ctx context.Context, rideId int64, status model.RideStatus) error {
	r, ok := tx.s.rides[rideId]
	if !ok {
		return myerrors.ErrRideNotFound
	}
	r.Status = status
	tx.s.rides[rideId] = r
	return nil
}

func (tx memTx) LockDriver(ctx context.Context, driverId int64) (model.Driver, error) {
	d, ok := tx.s.drivers[driverId]
	if !ok {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	return d, nil
}

func (tx memTx) SetDriverAvailability(ctx context.Context, driverId int64, available bool) error {
	d, ok := tx.s.drivers[driverId]
	if !ok {
		return myerrors.ErrDriverNotFound
	}
	d.IsAvailable = available
	tx.s.drivers[driverId] = d
	return nil
}

func (tx memTx) CountActiveRides(ctx context.Context, driverId int64) (int, error) {
	n := 0
	for _, r := range tx.s.rides {
		if r.DriverId != nil && *r.DriverId == driverId && r.Status.HoldsDriver() {
			n++
		}
	}
	return n, nil
}
