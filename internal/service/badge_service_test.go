package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/repository"

	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

func TestResolve(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	inactive := f.employee(t, "EMP003")
	inactive.Active = false
	if err := f.store.Employees().Create(context.Background(), inactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	tests := []struct {
		name     string
		uid      string
		wantCode string
		wantName string
	}{
		{name: "exact match", uid: "04001A2B3C4D", wantName: "John Tanaka"},
		{name: "surrounding whitespace trimmed", uid: "  04005E6F7G8H\n", wantName: "Sarah Yamamoto"},
		{name: "case sensitive", uid: "04001a2b3c4d", wantCode: apperrors.CodeNotFound},
		{name: "unknown badge", uid: "DEADBEEF00", wantCode: apperrors.CodeNotFound},
		{name: "inactive employee", uid: "0400123456AB", wantCode: apperrors.CodeNotFound},
		{name: "empty", uid: "   ", wantCode: apperrors.CodeValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			employee, err := f.badges.Resolve(context.Background(), tc.uid)
			if tc.wantCode != "" {
				if !apperrors.HasCode(err, tc.wantCode) {
					t.Fatalf("expected %s, got %v", tc.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if employee.DisplayName() != tc.wantName {
				t.Fatalf("expected %q, got %q", tc.wantName, employee.DisplayName())
			}
		})
	}
}

func TestResolveUnknownBadgeMessage(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	_, err := f.badges.Resolve(context.Background(), "FFFFFFFFFF")
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Message != MessageCardNotRegistered {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}
}

func TestResolveAfterBadgeReassignment(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	ctx := context.Background()
	previous := f.employee(t, "EMP003")
	previous.Active = false
	if err := f.store.Employees().Create(ctx, previous); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	badge := *previous.BadgeUID
	successor := &domain.Employee{EmployeeCode: "EMP010", FirstName: "Ken", LastName: "Mori", Role: domain.EmployeeRoleOperator, BadgeUID: &badge, Active: true}
	if err := f.store.Employees().Create(ctx, successor); !errors.Is(err, repository.ErrDuplicateBadge) {
		t.Fatalf("expected duplicate badge rejection, got %v", err)
	}

	previous.BadgeUID = nil
	if err := f.store.Employees().Create(ctx, previous); err != nil {
		t.Fatalf("release badge: %v", err)
	}
	if err := f.store.Employees().Create(ctx, successor); err != nil {
		t.Fatalf("assign badge: %v", err)
	}
	for i := 0; i < 50; i++ {
		employee, err := f.badges.Resolve(ctx, badge)
		if err != nil || employee.EmployeeCode != "EMP010" {
			t.Fatalf("resolve #%d: %+v %v", i, employee, err)
		}
	}
}
