package services

import (
	"context"
	"errors"
	"testing"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
	"ride-booking/internal/ride-service/core/myerrors"
)

func TestGetRideRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rides := NewRidesService(mylogger.Discard(), f.store)
	rideId := f.createRide(t)

	got, err := rides.GetRide(ctx, rideId)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fare.String() != "349.00" || got.Pickup != "MG Road" || got.DriverDetails != nil {
		t.Errorf("ride = %+v", got)
	}

	d := f.store.SeedDriver("Ravi Kumar", true)
	if _, err := f.svc.AcceptRide(ctx, rideId, d); err != nil {
		t.Fatal(err)
	}
	got, err = rides.GetRide(ctx, rideId)
	if err != nil {
		t.Fatal(err)
	}
	if got.DriverDetails == nil || got.DriverDetails.DriverId != d || got.DriverDetails.User.FullName != "Ravi Kumar" {
		t.Errorf("driver details = %+v", got.DriverDetails)
	}

	if _, err := rides.GetRide(ctx, 404); !errors.Is(err, myerrors.ErrRideNotFound) {
		t.Errorf("unknown ride err = %v", err)
	}
}

func TestListUnassignedOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rides := NewRidesService(mylogger.Discard(), f.store)

	first := f.createRide(t)
	second := f.createRide(t)
	third := f.createRide(t)
	cancelled := f.createRide(t)
	d := f.store.SeedDriver("Driver", true)

	if _, err := f.svc.AcceptRide(ctx, second, d); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetStatus(ctx, cancelled, "Cancelled"); err != nil {
		t.Fatal(err)
	}

	list, err := rides.ListUnassigned(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].RideId != first || list[1].RideId != third {
		t.Fatalf("unassigned = %+v", list)
	}
	for _, r := range list {
		if r.DriverId != nil || r.Status != model.StatusPending {
			t.Errorf("unexpected row %+v", r)
		}
	}
}

func TestListRidesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rides := NewRidesService(mylogger.Discard(), f.store)

	a := f.createRide(t)
	b := f.createRide(t)
	d := f.store.SeedDriver("Driver", true)
	if _, err := f.svc.AcceptRide(ctx, a, d); err != nil {
		t.Fatal(err)
	}

	all, err := rides.ListRides(ctx, model.RideFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].RideId != b || all[1].RideId != a {
		t.Fatalf("all rides not newest first: %+v", all)
	}
	if all[1].DriverName == nil || *all[1].DriverName != "Driver" || all[1].UserName != "Asha Rider" {
		t.Errorf("names = %+v", all[1])
	}

	byDriver, err := rides.ListRides(ctx, model.RideFilter{DriverId: d})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDriver) != 1 || byDriver[0].RideId != a {
		t.Errorf("by driver = %+v", byDriver)
	}

	byUser, err := rides.ListRides(ctx, model.RideFilter{UserId: 999})
	if err != nil {
		t.Fatal(err)
	}
	if byUser == nil || len(byUser) != 0 {
		t.Errorf("unknown user list = %#v", byUser)
	}
}
