package seed

import (
	"time"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
)

// Users returns the baseline user accounts. Each call returns a fresh slice.
func Users() []schema.User {
	return []schema.User{
		{ID: "1", FullName: "Jeffrey Dahmer", Email: "jdahmer@gmail.com", Name: "jdahmer71", Status: schema.StatusActive, Role: schema.RoleAdmin, JoinedDate: schema.NewDate(2025, time.March, 13), LastActive: "1 minute ago"},
		{ID: "2", FullName: "Olivia Bennett", Email: "ollieb@gmail.com", Name: "ollyes59", Status: schema.StatusInactive, Role: schema.RoleUser, JoinedDate: schema.NewDate(2022, time.June, 27), LastActive: "1 month ago"},
		{ID: "3", FullName: "Daniel Warren", Email: "dwarren3@gmail.com", Name: "dwarren5", Status: schema.StatusActive, Role: schema.RoleUser, JoinedDate: schema.NewDate(2024, time.January, 8), LastActive: "4 days ago"},
		{ID: "4", FullName: "Chloe Hayes", Email: "chloehhyes@gmail.com", Name: "chloelilh", Status: schema.StatusInactive, Role: schema.RoleGuest, JoinedDate: schema.NewDate(2021, time.October, 5), LastActive: "10 days ago"},
		{ID: "5", FullName: "Marcus Johnson", Email: "mj877@gmail.com", Name: "marcj47", Status: schema.StatusActive, Role: schema.RoleUser, JoinedDate: schema.NewDate(2023, time.February, 19), LastActive: "3 months ago"},
		{ID: "6", FullName: "Isabella Clark", Email: "belleclark@gmail.com", Name: "bellecl", Status: schema.StatusActive, Role: schema.RoleModerator, JoinedDate: schema.NewDate(2022, time.August, 10), LastActive: "1 week ago"},
		{ID: "7", FullName: "Lucas Mitchell", Email: "lucamitch@gmail.com", Name: "lucamitch", Status: schema.StatusActive, Role: schema.RoleGuest, JoinedDate: schema.NewDate(2024, time.April, 23), LastActive: "4 hours ago"},
		{ID: "8", FullName: "Mark Wilburg", Email: "markwil52@gmail.com", Name: "markwilb52", Status: schema.StatusActive, Role: schema.RoleUser, JoinedDate: schema.NewDate(2020, time.November, 14), LastActive: "2 months ago"},
		{ID: "9", FullName: "Nicholas Agwan", Email: "nicolaaas909@gmail.com", Name: "nicolaaas909", Status: schema.StatusActive, Role: schema.RoleUser, JoinedDate: schema.NewDate(2023, time.July, 6), LastActive: "3 hours ago"},
		{ID: "10", FullName: "Mia Nadlen", Email: "mianaddlen@gmail.com", Name: "mianaddlen", Status: schema.StatusInactive, Role: schema.RoleGuest, JoinedDate: schema.NewDate(2021, time.December, 31), LastActive: "4 months ago"},
		{ID: "11", FullName: "Noemi Villar", Email: "noemivill99@gmail.com", Name: "noemi", Status: schema.StatusActive, Role: schema.RoleAdmin, JoinedDate: schema.NewDate(2024, time.August, 10), LastActive: "15 minutes ago"},
	}
}

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// Reports returns the baseline drowsiness reports r1-r5. Each call returns a fresh slice.
func Reports() []schema.Report {
	return []schema.Report{
		{
			ID: "r1", UserID: "2", UserName: "Olivia Bennett", Timestamp: at(2025, time.February, 1, 8, 30),
			EyeClosurePercentage: 75, MouthAspectRatio: 0.45, HeadTiltAngle: 15, YawnFrequency: 3,
			DrowsinessLevel: schema.LevelAlarm, Location: schema.Location{Lat: 14.5995, Lng: 120.9842},
			Speed: 65, AlertSent: true, EmergencyContacted: false,
		},
		{
			ID: "r2", UserID: "3", UserName: "Daniel Warren", Timestamp: at(2025, time.February, 1, 7, 15),
			EyeClosurePercentage: 85, MouthAspectRatio: 0.52, HeadTiltAngle: 25, YawnFrequency: 5,
			DrowsinessLevel: schema.LevelEmergency, Location: schema.Location{Lat: 14.676, Lng: 121.0437},
			Speed: 80, AlertSent: true, EmergencyContacted: true,
		},
		{
			ID: "r3", UserID: "6", UserName: "Isabella Clark", Timestamp: at(2025, time.February, 1, 6, 45),
			EyeClosurePercentage: 65, MouthAspectRatio: 0.38, HeadTiltAngle: 10, YawnFrequency: 2,
			DrowsinessLevel: schema.LevelVoiceWarning, Location: schema.Location{Lat: 14.5547, Lng: 121.0244},
			Speed: 55, AlertSent: true, EmergencyContacted: false,
		},
		{
			ID: "r4", UserID: "7", UserName: "Lucas Mitchell", Timestamp: at(2025, time.January, 31, 23, 20),
			EyeClosurePercentage: 80, MouthAspectRatio: 0.48, HeadTiltAngle: 20, YawnFrequency: 4,
			DrowsinessLevel: schema.LevelAlarm, Location: schema.Location{Lat: 14.5764, Lng: 120.9827},
			Speed: 70, AlertSent: true, EmergencyContacted: false,
		},
		{
			ID: "r5", UserID: "9", UserName: "Nicholas Agwan", Timestamp: at(2025, time.January, 31, 22, 10),
			EyeClosurePercentage: 90, MouthAspectRatio: 0.55, HeadTiltAngle: 30, YawnFrequency: 6,
			DrowsinessLevel: schema.LevelEmergency, Location: schema.Location{Lat: 14.5243, Lng: 121.0792},
			Speed: 75, AlertSent: true, EmergencyContacted: true,
		},
	}
}
