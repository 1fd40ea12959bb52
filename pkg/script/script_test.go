// pkg/script/script_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test install script XML parsing

package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/script"
	"github.com/modtide/modtide/pkg/types"
)

const fullScript = `
<installScript>
  <header name="Example Mod" author="someone" version="1.2" website="https://example.test">
    <description>Adds examples.</description>
  </header>
  <moduleDependencies operator="And">
    <fileDependency file="base.esm" state="Active"/>
  </moduleDependencies>
  <requiredInstallFiles>
    <file source="readme.txt" destination=""/>
    <folder source="Core" destination=""/>
    <iniEdit file="game.ini" section="Display" key="iSize" value="2048"/>
  </requiredInstallFiles>
  <installSteps>
    <installStep name="Textures">
      <optionGroup name="Resolution" type="SelectExactlyOne">
        <option name="High" type="Recommended">
          <description>4k textures</description>
          <files>
            <folder source="HiRes" destination="Textures"/>
          </files>
          <flags>
            <flag name="hires">on</flag>
          </flags>
        </option>
        <option name="Low" type="Optional">
          <files>
            <folder source="LoRes" destination="Textures"/>
          </files>
        </option>
      </optionGroup>
    </installStep>
    <installStep name="Extras">
      <visible>
        <flagDependency flag="hires" value="on"/>
      </visible>
      <optionGroup name="Extras" type="SelectAny">
        <option name="Bonus">
          <files>
            <file source="bonus.esp"/>
          </files>
        </option>
      </optionGroup>
    </installStep>
  </installSteps>
  <conditionalFileInstalls>
    <pattern>
      <dependencies operator="Or">
        <fileDependency file="other.esp" state="Active"/>
        <flagDependency flag="hires" value="on"/>
      </dependencies>
      <files>
        <file source="patch.esp" destination=""/>
      </files>
    </pattern>
  </conditionalFileInstalls>
</installScript>`

func TestParse_FullScript(t *testing.T) {
	doc, err := script.Parse([]byte(fullScript))
	require.NoError(t, err)

	header := doc.Header()
	assert.Equal(t, "Example Mod", header.Name)
	assert.Equal(t, "1.2", header.Version)
	assert.Equal(t, "Adds examples.", header.Description)

	require.NotNil(t, doc.ModDependency())

	required := doc.RequiredFiles()
	require.Len(t, required, 2)
	assert.Equal(t, types.PluginFile{Source: "readme.txt"}, required[0])
	assert.Equal(t, types.PluginFile{Source: "Core", IsFolder: true}, required[1])

	iniEdits := doc.RequiredIniEdits()
	require.Len(t, iniEdits, 1)
	assert.Equal(t, types.IniEdit{File: "game.ini", Section: "Display", Key: "iSize", Value: "2048"}, iniEdits[0])

	steps := doc.InstallSteps()
	require.Len(t, steps, 2)

	assert.Equal(t, "Textures", steps[0].Name)
	assert.Nil(t, steps[0].Visible)
	require.Len(t, steps[0].Groups, 1)
	group := steps[0].Groups[0]
	assert.Equal(t, types.SelectExactlyOne, group.Type)
	require.Len(t, group.Options, 2)
	assert.Equal(t, types.OptionRecommended, group.Options[0].Type)
	assert.Equal(t, []types.FlagSet{{Name: "hires", Value: "on"}}, group.Options[0].Flags)
	assert.Equal(t, "Textures", group.Options[0].Files[0].Destination)

	require.NotNil(t, steps[1].Visible)

	patterns := doc.ConditionalPatterns()
	require.Len(t, patterns, 1)
	require.NotNil(t, patterns[0].Dependency)
	require.Len(t, patterns[0].Files, 1)
	assert.Equal(t, "patch.esp", patterns[0].Files[0].Source)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		wantCode errors.ErrorCode
	}{
		{
			name:     "malformed_xml",
			xml:      "<installScript",
			wantCode: errors.ErrScriptParse,
		},
		{
			name:     "wrong_root",
			xml:      "<other/>",
			wantCode: errors.ErrScriptInvalid,
		},
		{
			name:     "missing_mod_name",
			xml:      `<installScript><header author="x"/></installScript>`,
			wantCode: errors.ErrScriptInvalid,
		},
		{
			name: "file_without_source",
			xml: `<installScript><header name="m"/>
				<requiredInstallFiles><file destination="x"/></requiredInstallFiles>
			</installScript>`,
			wantCode: errors.ErrScriptInvalid,
		},
		{
			name: "empty_option_group",
			xml: `<installScript><header name="m"/>
				<installSteps><installStep name="s">
					<optionGroup name="g" type="SelectAny"/>
				</installStep></installSteps>
			</installScript>`,
			wantCode: errors.ErrScriptInvalid,
		},
		{
			name: "unknown_group_type",
			xml: `<installScript><header name="m"/>
				<installSteps><installStep name="s">
					<optionGroup name="g" type="PickSome">
						<option name="o"/>
					</optionGroup>
				</installStep></installSteps>
			</installScript>`,
			wantCode: errors.ErrScriptInvalid,
		},
		{
			name: "unknown_dependency",
			xml: `<installScript><header name="m"/>
				<moduleDependencies><weatherDependency/></moduleDependencies>
			</installScript>`,
			wantCode: errors.ErrScriptInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Parse([]byte(tt.xml))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode),
				"want code %s, got %v", tt.wantCode, err)
		})
	}
}

func TestParse_MinimalScript(t *testing.T) {
	doc, err := script.Parse([]byte(`<installScript><header name="Tiny"/></installScript>`))
	require.NoError(t, err)

	assert.Nil(t, doc.ModDependency())
	assert.Empty(t, doc.InstallSteps())
	assert.Empty(t, doc.RequiredFiles())
	assert.Empty(t, doc.ConditionalPatterns())
}
