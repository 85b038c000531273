package exointel_test

import (
	"context"
	"fmt"
	"time"

	exointel "github.com/codenameuriel/exo-intel"
	"github.com/codenameuriel/exo-intel/pkg/domain"
)

func ExampleNewMemory() {
	ctx := context.Background()
	svc := exointel.NewMemory()

	_ = svc.Catalog().PutStarSystem(ctx, domain.StarSystem{ID: 1, Name: "Alpha Centauri", DistanceParsecs: domain.Float(1.34)})
	user, _ := svc.Users().CreateUser(ctx, "demo")

	task := domain.NewTask(user.ID, domain.KindTravelTime, domain.Parameters{"star_system_id": 1, "speed_percentage": 20}, time.Now())
	run, err := svc.Runner().Execute(ctx, task)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(run.Status)
	fmt.Println(run.Result["travel_time_years"], "years")
	// Output:
	// SUCCESS
	// 21.85 years
}
