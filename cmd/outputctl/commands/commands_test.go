package commands_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/4chain-ag/go-hw-outputs/cmd/outputctl/commands"
	"github.com/4chain-ag/go-hw-outputs/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestPlanCommand(t *testing.T) {
	// given:
	root := commands.RootCmd()
	out := bytes.NewBuffer(nil)
	root.SetOut(out)
	root.SetIn(strings.NewReader(`{"address":"addr1","amount":1000000,"inlineDatum":"` + strings.Repeat("ab", 1100) + `"}`))
	root.SetArgs([]string{"plan", "-"})

	// when:
	err := root.Execute()

	// then:
	require.NoError(t, err)

	var actual struct {
		Messages []struct {
			Type string `json:"type"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &actual))
	require.Len(t, actual.Messages, 3)
	require.Equal(t, "CardanoTxOutput", actual.Messages[0].Type)
	require.Equal(t, "CardanoTxInlineDatumChunk", actual.Messages[2].Type)
}

func TestExportConfigCommand(t *testing.T) {
	// given:
	path := fmt.Sprintf("%s/config.toml", t.TempDir())
	root := commands.RootCmd()
	root.SetOut(bytes.NewBuffer(nil))
	root.SetArgs([]string{"export-config", "-o", path})

	// when:
	err := root.Execute()

	// then:
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.NewDefault().Device, loaded.Device)
}
