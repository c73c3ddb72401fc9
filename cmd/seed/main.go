package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/lidiabooking/booking-api/internal/config"
	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
	"github.com/lidiabooking/booking-api/internal/repository/postgres"
)

type seedService struct {
	category    string
	name        string
	description string
	price       int64
	duration    int
}

type seedSchedule struct {
	dayOfWeek    int
	startTime    string
	endTime      string
	breakMinutes int
}

var services = []seedService{
	{"Micropigmentación - Cejas", "Microblading", "Técnica pelo a pelo para un resultado natural.", 800000, 120},
	{"Micropigmentación - Cejas", "Shading", "Efecto sombreado suave para cejas definidas.", 800000, 120},
	{"Micropigmentación - Cejas", "Nanoblading", "Pelo a pelo ultra fino, mayor realismo.", 850000, 150},
	{"Micropigmentación - Cejas", "Micro Híbrida", "Combinación pelo a pelo + sombreado.", 850000, 150},

	{"Micropigmentación - Labios", "Micro Lips", "Color uniforme y definición natural.", 990000, 150},
	{"Micropigmentación - Labios", "Neutralización de labios", "Corrige tonos oscuros y empareja color.", 990000, 150},
	{"Micropigmentación - Labios", "Magic Lips", "Efecto hidratado y luminoso.", 990000, 150},

	{"Micropigmentación - Ojos", "Classic Eyeliner", "Delineado clásico para mirada marcada.", 700000, 120},
	{"Micropigmentación - Ojos", "Soft Liner", "Delineado difuminado, súper natural.", 700000, 120},

	{"Mirada Perfecta", "Lifting de pestañas", "Eleva y curva tus pestañas naturales.", 180000, 60},
	{"Mirada Perfecta", "Brow Lamination", "Ordena y fija cejas, efecto peinado.", 200000, 60},
	{"Mirada Perfecta", "Diseño de cejas + Henna", "Diseño + tinte para cejas más definidas.", 150000, 45},
	{"Mirada Perfecta", "Extensión de pestañas (clásicas)", "Volumen natural, elegante.", 250000, 120},

	{"Faciales", "BB Glow", "Efecto piel luminosa y uniforme.", 250000, 60},
	{"Faciales", "Hollywood Peel", "Limpieza profunda + glow.", 300000, 60},
	{"Labios", "Hidra Lips", "Hidratación y efecto volumen.", 180000, 45},

	{"Depilación Láser", "Depilación láser - Zona chica", "Axilas/bozo/mentón (según disponibilidad).", 150000, 30},
	{"Depilación Láser", "Depilación láser - Zona mediana", "Brazos/abdomen (según disponibilidad).", 250000, 45},
	{"Depilación Láser", "Depilación láser - Zona grande", "Piernas completas/espalda (según disponibilidad).", 350000, 60},
}

var staffNames = []string{
	"Lidia Imlach",
	"Staff 1",
	"Staff 2",
}

// Weekday entries use 0=Sunday numbering. Monday through Friday run
// 09:00-18:00 with a 60 minute break, Saturday mornings only.
func defaultSchedules() []seedSchedule {
	schedules := make([]seedSchedule, 0, 6)
	for dow := 1; dow <= 5; dow++ {
		schedules = append(schedules, seedSchedule{dow, "09:00:00", "18:00:00", 60})
	}
	schedules = append(schedules, seedSchedule{6, "09:00:00", "13:00:00", 0})
	return schedules
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	serviceRepo := postgres.NewServiceRepository(db)
	staffRepo := postgres.NewStaffRepository(db)

	for _, s := range services {
		if err := ensureService(ctx, serviceRepo, s); err != nil {
			log.Fatal().Err(err).Str("service", s.name).Msg("failed to seed service")
		}
	}

	for _, name := range staffNames {
		member, err := ensureStaff(ctx, staffRepo, name, cfg.Booking.Timezone)
		if err != nil {
			log.Fatal().Err(err).Str("staff", name).Msg("failed to seed staff")
		}
		for _, sched := range defaultSchedules() {
			if err := ensureSchedule(ctx, staffRepo, member, sched); err != nil {
				log.Fatal().Err(err).Str("staff", name).Msg("failed to seed schedule")
			}
		}
	}

	log.Info().Msg("seed complete: services, staff and schedules are in place")
}

func ensureService(ctx context.Context, repo repository.ServiceRepository, s seedService) error {
	_, err := repo.GetByName(ctx, s.category, s.name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return repo.Create(ctx, &model.Service{
		Category:        s.category,
		Name:            s.name,
		Description:     s.description,
		Price:           s.price,
		DurationMinutes: s.duration,
	})
}

func ensureStaff(ctx context.Context, repo repository.StaffRepository, fullName, timezone string) (*model.Staff, error) {
	member, err := repo.GetByFullName(ctx, fullName)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	member = &model.Staff{
		FullName: fullName,
		Active:   true,
		Timezone: timezone,
	}
	if err := repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func ensureSchedule(ctx context.Context, repo repository.StaffRepository, member *model.Staff, sched seedSchedule) error {
	existing, err := repo.GetScheduleEntries(ctx, member.ID, sched.dayOfWeek)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.StartTime == sched.startTime && e.EndTime == sched.endTime {
			return nil
		}
	}
	return repo.CreateSchedule(ctx, &model.StaffSchedule{
		StaffID:      member.ID,
		DayOfWeek:    sched.dayOfWeek,
		StartTime:    sched.startTime,
		EndTime:      sched.endTime,
		BreakMinutes: sched.breakMinutes,
	})
}
