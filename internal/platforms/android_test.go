package platforms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyTemplates(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "android")
	writeTree(t, src, map[string]string{
		"app/build.gradle.kts":                `namespace = "{{namespace}}"` + "\n" + `applicationId = "{{application_id}}"`,
		"app/src/main/AndroidManifest.xml":    `<manifest package="{{namespace}}"/>`,
		"app/src/main/kotlin/MainActivity.kt": `package {{namespace}}`,
		"key.properties.example":              "storePassword=",
		"app/keystore.jks":                    "binary",
		"gradle.properties":                   "org.gradle.jvmargs=-Xmx4g\nunknown={{missing}}\n",
	})

	err := CopyTemplates(src, dst, map[string]string{
		"namespace":      "com.example.wallet",
		"application_id": "com.example.wallet.dev",
	})

	require.NoError(t, err)
	assert.Equal(t, `namespace = "com.example.wallet"`+"\n"+`applicationId = "com.example.wallet.dev"`,
		readFile(t, filepath.Join(dst, "app", "build.gradle.kts")))
	assert.Equal(t, `<manifest package="com.example.wallet"/>`,
		readFile(t, filepath.Join(dst, "app", "src", "main", "AndroidManifest.xml")))
	assert.Equal(t, `package {{namespace}}`,
		readFile(t, filepath.Join(dst, "app", "src", "main", "kotlin", "MainActivity.kt")))
	assert.Contains(t, readFile(t, filepath.Join(dst, "gradle.properties")), "unknown={{missing}}")
	assert.NoFileExists(t, filepath.Join(dst, "key.properties.example"))
	assert.NoFileExists(t, filepath.Join(dst, "app", "keystore.jks"))
}

func TestCopyTemplates_NoVars(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, map[string]string{"settings.gradle.kts": `rootProject.name = "{{namespace}}"`})

	require.NoError(t, CopyTemplates(src, dst, nil))

	assert.Equal(t, `rootProject.name = "{{namespace}}"`, readFile(t, filepath.Join(dst, "settings.gradle.kts")))
}

func TestCopyTemplates_KeepsMode(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(src, "gradlew"), []byte("#!/bin/sh\n"), 0755))

	require.NoError(t, CopyTemplates(src, dst, nil))

	info, err := os.Stat(filepath.Join(dst, "gradlew"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func loadProps(t *testing.T, path string) *properties.Properties {
	t.Helper()
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadFile(path)
	require.NoError(t, err)
	return props
}

func TestSetDistributionURL(t *testing.T) {
	const url = "https://services.gradle.org/distributions/gradle-8.10-all.zip"

	t.Run("updates existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gradle-wrapper.properties")
		require.NoError(t, os.WriteFile(path, []byte(
			"# wrapper settings\ndistributionBase=GRADLE_USER_HOME\ndistributionUrl=https\\://old/gradle-7.zip\n"), 0644))

		require.NoError(t, SetDistributionURL(path, url))

		props := loadProps(t, path)
		assert.Equal(t, url, props.GetString("distributionUrl", ""))
		assert.Equal(t, "GRADLE_USER_HOME", props.GetString("distributionBase", ""))
		assert.Contains(t, readFile(t, path), "# wrapper settings")
	})

	t.Run("creates missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gradle", "wrapper", "gradle-wrapper.properties")

		require.NoError(t, SetDistributionURL(path, url))

		assert.Equal(t, url, loadProps(t, path).GetString("distributionUrl", ""))
	})
}

func TestGenerateAndroid(t *testing.T) {
	project := t.TempDir()
	writeTree(t, project, map[string]string{
		"templates/android/app/build.gradle.kts":                     `applicationId = "{{application_id}}"`,
		"templates/android/gradle/wrapper/gradle-wrapper.properties": "distributionUrl=old\n",
	})
	root := "templates"
	url := "https://example.com/gradle.zip"
	cfg := &Config{ProjectName: "wallet", PlatformsDir: &root}
	cfg.Android.GradleWrapper.DistributionURL = &url

	dir, err := GenerateAndroid(project, cfg, map[string]string{"application_id": "com.example.wallet"})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "android"), dir)
	assert.Equal(t, `applicationId = "com.example.wallet"`, readFile(t, filepath.Join(dir, "app", "build.gradle.kts")))
	assert.Equal(t, url, loadProps(t, filepath.Join(dir, "gradle", "wrapper", "gradle-wrapper.properties")).GetString("distributionUrl", ""))
}

func TestGenerateAndroid_MissingTemplates(t *testing.T) {
	_, err := GenerateAndroid(t.TempDir(), &Config{ProjectName: "wallet"}, nil)

	assert.ErrorContains(t, err, "android platform templates directory not found")
}
