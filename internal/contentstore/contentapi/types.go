package contentapi

// The content API returns entries with their links already resolved.

type entriesResponse struct {
	Items []entry `json:"items"`
	Total int     `json:"total"`
	Skip  int     `json:"skip"`
	Limit int     `json:"limit"`
}

type entry struct {
	Sys    sys        `json:"sys"`
	Fields gameFields `json:"fields"`
}

type sys struct {
	ID string `json:"id"`
}

type gameFields struct {
	GameNumber  int        `json:"gameNumber"`
	TeamA       *linkClub  `json:"teamA"`
	TeamB       *linkClub  `json:"teamB"`
	AgeGroup    *linkNamed `json:"ageGroup"`
	Venue       *linkNamed `json:"venue"`
	CourtNumber string     `json:"courtNumber"`
	FixtureDate string     `json:"fixtureDate"`
	ScoreA      int        `json:"scoreA"`
	ScoreB      int        `json:"scoreB"`
	ResultTeamA string     `json:"resultTeamA"`
	ResultTeamB string     `json:"resultTeamB"`
	IsLocked    bool       `json:"isLocked"`
	Scoresheet  *asset     `json:"scoresheet"`
}

type linkClub struct {
	Fields struct {
		ClubName string `json:"clubName"`
	} `json:"fields"`
}

type linkNamed struct {
	Fields struct {
		Name string `json:"name"`
	} `json:"fields"`
}

type asset struct {
	Fields struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

type scoreRequest struct {
	ScoreA int `json:"scoreA"`
	ScoreB int `json:"scoreB"`
}

type resultRequest struct {
	ResultTeamA string `json:"resultTeamA"`
	ResultTeamB string `json:"resultTeamB"`
}
