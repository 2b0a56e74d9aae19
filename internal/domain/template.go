package domain

import "strings"

const officeLibraries = `# Office.js CDN reference
//appsforoffice.microsoft.com/lib/1/hosted/Office.js

# NPM CDN references
jquery
office-ui-fabric/dist/js/jquery.fabric.min.js
office-ui-fabric/dist/css/fabric.min.css
office-ui-fabric/dist/css/fabric.components.min.css

# IntelliSense definitions
//raw.githubusercontent.com/DefinitelyTyped/DefinitelyTyped/master/office-js/office-js.d.ts
//raw.githubusercontent.com/DefinitelyTyped/DefinitelyTyped/master/jquery/jquery.d.ts

# Note: for any "loose" typescript definitions, you can paste them at the bottom of your TypeScript/JavaScript code in the "Script" tab.`

const genericLibraries = `# NPM CDN references
jquery
office-ui-fabric/dist/js/jquery.fabric.min.js
office-ui-fabric/dist/css/fabric.min.css
office-ui-fabric/dist/css/fabric.components.min.css

# IntelliSense definitions
//raw.githubusercontent.com/DefinitelyTyped/DefinitelyTyped/master/jquery/jquery.d.ts

# Note: for any "loose" typescript definitions, you can paste them at the bottom of your TypeScript/JavaScript code in the "Script" tab.`

const hostAPIScript = `{{ns}}.run(function(context) {
    // insert your code here...
    return context.sync();
}).catch(function(error) {
    console.log(error);
    if (error instanceof OfficeExtension.Error) {
        console.log("Debug info: " + JSON.stringify(error.debugInfo));
    }
});`

const legacyOfficeScript = `Office.context.document.getSelectedDataAsync(Office.CoercionType.Text,
    function (asyncResult) {
        if (asyncResult.status === Office.AsyncResultStatus.Failed) {
            console.log(asyncResult.error.message);
        } else {
            console.log('Selected data is ' + asyncResult.value);
        }
    }
);`

const genericScript = `console.log("Hello world");`

// CreateBlankSnippet returns the starter snippet for a host.
func CreateBlankSnippet(caps Capabilities) Snippet {
	if !caps.Office {
		return NewSnippet(Snippet{Script: genericScript, Libraries: genericLibraries})
	}
	useHostAPI := caps.APINamespace != ""
	if caps.Addin && !caps.HostAPISupported {
		// old clients only understand the 2013 API
		useHostAPI = false
	}
	script := legacyOfficeScript
	if useHostAPI {
		script = strings.ReplaceAll(hostAPIScript, "{{ns}}", caps.APINamespace)
	}
	return NewSnippet(Snippet{Script: script, Libraries: officeLibraries})
}
