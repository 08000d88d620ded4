// Package document classifies bootstrap configuration documents.
//
// Every file under the environments directory is a JSON object carrying a
// "$type" discriminator. The Classifier turns raw text into a Document with
// one of a closed set of kinds:
//
//   - KindEnvironment: $type contains the commerce environment type name
//   - KindPolicySet: $type contains the policy set type name
//   - KindConditionalPolicySet: $type contains the conditional policy set type name
//   - KindUnrecognized: $type is present but names none of the above
//   - KindMalformed: the text does not parse, has no fields, or has no usable $type
//
// Matching is by substring containment in the priority order above, so
// assembly-qualified discriminators such as
// "Sitecore.Commerce.Core.PolicySet, Sitecore.Commerce.Core" still match.
//
// Conditional policy sets additionally carry a "Conditions" object mapping
// setting names to regular expressions:
//
//	{
//	    "$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet, Plugin.ConditionalConfigs",
//	    "Id": "Entity-PolicySet-RegionalPolicySet",
//	    "Conditions": {
//	        "Region": "^US$"
//	    }
//	}
//
// A missing or unparseable Conditions field does not change the kind; it is
// recorded on Document.Err and yields DispositionFailIsolated.
package document
