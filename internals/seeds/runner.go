package seeds

import (
	"log"

	"gorm.io/gorm"

	"timetable_backend/internals/seeds/timetables"
)

const TimetableSeedPath = "internals/seeds/timetables/data_timetable.json"

func RunAllSeeds(db *gorm.DB) {
	//* Timetable demo (periods, classes, slots + satu bentrok guru)
	if err := timetables.SeedTimetableFromJSON(db, TimetableSeedPath); err != nil {
		log.Printf("❌ Seed timetable gagal: %v", err)
	}
}
