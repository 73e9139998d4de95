package main

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/srg/hilt/dutemu"
	"github.com/stretchr/testify/suite"
)

// EmulatorSuite spins one firmware emulator per test and restores the
// command flag variables afterwards, so command tests stay isolated.
type EmulatorSuite struct {
	suite.Suite

	Emu *dutemu.Emulator
	Srv *httptest.Server

	originalFlags struct {
		checkPort      string
		checkBaud      int
		checkTarget    string
		checkIP        string
		checkNames     []string
		checkConfig    string
		checkIPTimeout time.Duration
		checkBaseURL   string
	}
}

func (suite *EmulatorSuite) SetupSuite() {
	suite.originalFlags.checkPort = checkPort
	suite.originalFlags.checkBaud = checkBaud
	suite.originalFlags.checkTarget = checkTarget
	suite.originalFlags.checkIP = checkIP
	suite.originalFlags.checkNames = checkNames
	suite.originalFlags.checkConfig = checkConfigPath
	suite.originalFlags.checkIPTimeout = checkIPTimeout
	suite.originalFlags.checkBaseURL = checkBaseURL
}

func (suite *EmulatorSuite) TearDownSuite() {
	checkPort = suite.originalFlags.checkPort
	checkBaud = suite.originalFlags.checkBaud
	checkTarget = suite.originalFlags.checkTarget
	checkIP = suite.originalFlags.checkIP
	checkNames = suite.originalFlags.checkNames
	checkConfigPath = suite.originalFlags.checkConfig
	checkIPTimeout = suite.originalFlags.checkIPTimeout
	checkBaseURL = suite.originalFlags.checkBaseURL
}

func (suite *EmulatorSuite) SetupTest() {
	checkPort = ""
	checkBaud = 0
	checkTarget = ""
	checkIP = ""
	checkNames = nil
	checkConfigPath = ""
	checkIPTimeout = 0
	checkBaseURL = ""

	suite.Emu = dutemu.New()
	suite.Srv = httptest.NewServer(suite.Emu)

	checkCmd.SetContext(context.Background())
}

func (suite *EmulatorSuite) TearDownTest() {
	suite.Srv.Close()
}
